package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gemmit/gemmit/internal/formatter"
	"github.com/gemmit/gemmit/internal/stringsutil"
	"github.com/gemmit/gemmit/internal/ui"
)

// ErrNoChanges signals that the staging area is empty after the staging
// steps, which is a benign "nothing to do" condition.
var ErrNoChanges = errors.New("no changes to commit")

// Options carries the per-run settings of the flow.
type Options struct {
	ApprovalNeeded bool
	DryRun         bool
	Role           string
	OutWriter      io.Writer
	ErrWriter      io.Writer
}

// Flow runs the commit pipeline once, in order, with no retries or
// backward transitions.
type Flow struct {
	git     GitClient
	gen     MessageGenerator
	confirm Confirmer
	opts    Options
}

func NewFlow(git GitClient, gen MessageGenerator, opts Options) *Flow {
	if opts.OutWriter == nil {
		opts.OutWriter = os.Stdout
	}
	if opts.ErrWriter == nil {
		opts.ErrWriter = os.Stderr
	}
	return &Flow{
		git:     git,
		gen:     gen,
		confirm: &ConsoleConfirmer{Out: opts.ErrWriter},
		opts:    opts,
	}
}

// SetConfirmer replaces the interactive confirmer, for tests.
func (f *Flow) SetConfirmer(c Confirmer) {
	f.confirm = c
}

func (f *Flow) Run(ctx context.Context) error {
	if err := f.stageModified(); err != nil {
		return err
	}
	if err := f.stageUntracked(); err != nil {
		return err
	}

	diff, err := f.git.StagedDiff()
	if err != nil {
		return err
	}
	if strings.TrimSpace(diff) == "" {
		return ErrNoChanges
	}

	message, err := f.generate(ctx, diff)
	if err != nil {
		return err
	}

	return f.finishCommit(message)
}

// stageModified stages every modified tracked file unconditionally.
func (f *Flow) stageModified() error {
	modified, err := f.git.ModifiedFiles()
	if err != nil {
		return err
	}
	if len(modified) == 0 {
		return nil
	}

	fmt.Fprintln(f.opts.ErrWriter, "Found modified files. Staging them automatically:")
	for _, file := range modified {
		fmt.Fprintf(f.opts.ErrWriter, "  - %s\n", file)
	}
	if err := f.git.StageFiles(modified); err != nil {
		return err
	}
	fmt.Fprintln(f.opts.ErrWriter, "Modified files staged.")
	return nil
}

// stageUntracked lists untracked files and stages them only with the
// operator's consent. Declining leaves them untracked and continues.
func (f *Flow) stageUntracked() error {
	untracked, err := f.git.UntrackedFiles()
	if err != nil {
		return err
	}
	if len(untracked) == 0 {
		return nil
	}

	fmt.Fprintln(f.opts.ErrWriter, "\nFound untracked files:")
	for _, file := range untracked {
		fmt.Fprintf(f.opts.ErrWriter, "  - %s\n", file)
	}

	ok, err := f.confirm.Confirm("Do you want to add these files to git? (y/n): ")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(f.opts.ErrWriter, "Untracked files were not added.")
		return nil
	}

	if err := f.git.StageFiles(untracked); err != nil {
		return err
	}
	fmt.Fprintln(f.opts.ErrWriter, "New files added to the staging area.")
	return nil
}

func (f *Flow) generate(ctx context.Context, diff string) (string, error) {
	changedFiles, err := f.git.StagedFiles()
	if err != nil {
		return "", err
	}

	prompt := formatter.BuildPrompt(f.opts.Role, changedFiles, diff)

	fmt.Fprintln(f.opts.ErrWriter, "\nGenerating commit message with Gemini...")
	sp := ui.NewSpinner("Waiting for the model...")
	sp.Start()
	message, err := f.gen.GenerateCommitMessage(ctx, prompt)
	sp.Stop()
	if err != nil {
		return "", fmt.Errorf("failed to generate commit message: %w", err)
	}

	// The generated text is accepted as-is apart from whitespace trimming;
	// the format is requested via the prompt, not enforced.
	message = strings.TrimSpace(message)

	fmt.Fprintln(f.opts.ErrWriter, "\nGenerated Commit Message:")
	fmt.Fprintln(f.opts.ErrWriter, "---")
	fmt.Fprintln(f.opts.OutWriter, message)
	fmt.Fprintln(f.opts.ErrWriter, "---")
	return message, nil
}

func (f *Flow) finishCommit(message string) error {
	if f.opts.ApprovalNeeded {
		ok, err := f.confirm.Confirm("\nDo you want to commit with this message? (y/n): ")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(f.opts.ErrWriter, "Commit aborted.")
			return nil
		}
	}

	if f.opts.DryRun {
		fmt.Fprintln(f.opts.ErrWriter, "Dry run mode, no actual commit")
		return nil
	}

	hash, err := f.git.Commit(message)
	if err != nil {
		return err
	}

	fmt.Fprintf(f.opts.ErrWriter, "Changes committed successfully! (%s)\n",
		stringsutil.ShortHash(hash, 7, "unknown"))
	return nil
}
