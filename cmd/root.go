package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gemmit/gemmit/internal/config"
	"github.com/gemmit/gemmit/internal/git"
	"github.com/gemmit/gemmit/internal/llm"
	"github.com/gemmit/gemmit/internal/workflow"
)

// Set at build time via -ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

var (
	cfgFile        string
	approvalNeeded bool
	dryRun         bool
	verbose        bool
	configErr      error

	rootCmd = &cobra.Command{
		Use:   "gemmit",
		Short: "gemmit - AI-assisted git commits",
		Long: `gemmit stages your modified and untracked files, asks Gemini for a
conventional commit message based on the staged diff, and commits.`,
		Version: fmt.Sprintf("%s (built at %s)", Version, BuildTime),
		RunE: func(cmd *cobra.Command, args []string) error {
			if configErr != nil {
				return fmt.Errorf("configuration error: %w", configErr)
			}
			return handleErrors(run(cmd.Context()))
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
)

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// RootCmd exposes the root command for documentation generation.
func RootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Configuration file path (default is $HOME/.gemmit.yaml)")
	rootCmd.Flags().BoolVarP(&approvalNeeded, "approval-needed", "p", false,
		"Ask for confirmation before committing")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"Generate the message only, do not commit")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "V", false,
		"Show the git commands being run")
}

func initConfig() {
	configErr = config.InitConfig(cfgFile)
}

func run(ctx context.Context) error {
	gitClient, err := git.Open(".", git.Options{Verbose: verbose})
	if err != nil {
		return err
	}

	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}
	flow := workflow.NewFlow(gitClient, llm.NewClient(cfg), workflow.Options{
		ApprovalNeeded: approvalNeeded,
		DryRun:         dryRun,
		Role:           cfg.Role,
	})
	return flow.Run(ctx)
}

// handleErrors maps benign outcomes to a friendly message and exit code 0;
// everything else propagates to main and exits 1.
func handleErrors(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, workflow.ErrNoChanges) {
		fmt.Println("No changes to commit. All tracked files are up to date.")
		return nil
	}
	if errors.Is(err, git.ErrNotARepository) {
		return errors.New("gemmit must be run inside a Git repository")
	}
	return err
}
