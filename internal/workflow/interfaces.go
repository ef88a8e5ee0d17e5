// Package workflow orchestrates the linear commit pipeline: stage, diff,
// generate, confirm, commit.
package workflow

import "context"

// GitClient abstracts the version-control operations the flow performs.
type GitClient interface {
	ModifiedFiles() ([]string, error)
	UntrackedFiles() ([]string, error)
	StageFiles(files []string) error
	StagedDiff() (string, error)
	StagedFiles() ([]string, error)
	Commit(message string) (string, error)
}

// MessageGenerator abstracts the generative-text service.
type MessageGenerator interface {
	GenerateCommitMessage(ctx context.Context, prompt string) (string, error)
}

// Confirmer abstracts interactive yes/no prompts for testability.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}
