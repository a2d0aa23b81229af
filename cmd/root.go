// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "git-issue-extractor",
	Short: "A CLI tool to list the Jira issues mentioned in a range of git history.",
	Long: `git-issue-extractor scans the commits between two revisions for Jira issue keys
of every project visible to you, looks up their current status and summary, and
prints them as a table or as release-note bullets.

The Jira URL and credentials are read from $HOME/.git-issue-extractor.yaml,
the JIRA_URL, JIRA_USER, JIRA_TOKEN and GIT_ISSUE_EXTRACTOR_REPO environment
variables, or flags.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("config", "", "Config file (default $HOME/.git-issue-extractor.yaml)")
	rootCmd.PersistentFlags().String("jira-url", "", "Base URL of the Jira instance, e.g. https://example.atlassian.net")
	rootCmd.PersistentFlags().String("repo", ".", "Path to the git repository to scan")
}
