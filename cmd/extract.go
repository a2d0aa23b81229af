package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/git-issue-extractor/internal/config"
	"github.com/naka-gawa/git-issue-extractor/internal/gateway"
	"github.com/naka-gawa/git-issue-extractor/internal/progress"
	"github.com/naka-gawa/git-issue-extractor/internal/render"
	"github.com/naka-gawa/git-issue-extractor/internal/usecase"
)

var extractCmd = &cobra.Command{
	Use:   "extract <start> <end>",
	Short: "Extracts Jira issues mentioned in commits between two revisions",
	Long: `Lists the commits in start..end (each a sha, tag or branch), finds every Jira
issue key mentioned in them and prints the issues' status and summary.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// Logs go to standard error so they never mix with the rendered output.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		cfgFile, _ := cmd.InheritedFlags().GetString("config")
		cfg, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		noMerges, _ := cmd.Flags().GetBool("no-merges")
		releaseNote, _ := cmd.Flags().GetBool("release-note")
		format := render.FormatTable
		if releaseNote {
			format = render.FormatReleaseNote
		}

		// Inject dependencies and run the main business logic.
		tracker, err := gateway.NewJiraGateway(cfg.JiraURL, gateway.Credentials{
			User:  cfg.JiraUser,
			Token: cfg.JiraToken,
		}, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create Jira gateway: %v\n", err)
			os.Exit(1)
		}
		history := gateway.NewGitHistory(cfg.RepoPath, logger)
		extractor := usecase.NewExtractor(
			tracker,
			history,
			progress.New(os.Stdout),
			render.Renderer{BaseURL: cfg.JiraURL},
			os.Stdout,
			logger,
		)

		err = extractor.Run(ctx, usecase.Options{
			Start:    args[0],
			End:      args[1],
			NoMerges: noMerges,
			Format:   format,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to extract issues: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().Bool("no-merges", false, "Ignore merge commits when looking for issues. Requires issue keys in the commit messages themselves.")
	extractCmd.Flags().Bool("release-note", false, "Format the output to suit release notes")
}
