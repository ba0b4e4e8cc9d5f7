// Package cli provides the cobra command tree for branchseek.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/branchseek/branchseek/internal/adapters/driven/config/file"
	"github.com/branchseek/branchseek/internal/connectors/github"
	"github.com/branchseek/branchseek/internal/core/ports/driven"
	"github.com/branchseek/branchseek/internal/core/ports/driving"
	"github.com/branchseek/branchseek/internal/core/services"
	"github.com/branchseek/branchseek/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verboseFlag bool

// Services wired by ensureServices. Tests inject their own.
var (
	searchService driving.SearchService
	configStore   driven.ConfigStore
)

var rootCmd = &cobra.Command{
	Use:   "branchseek",
	Short: "Search for keywords across all branches of a GitHub repository",
	Long: `branchseek searches every branch of a GitHub repository for a keyword,
in file contents and file names, and reports matches with surrounding
context and branch-accurate GitHub links.

Authentication uses the GITHUB_TOKEN environment variable or the
github.token key in ~/.branchseek/config.toml. Without a token the
anonymous rate limit of 60 requests per hour applies.`,
	SilenceUsage:      true,
	PersistentPreRunE: ensureServices,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose progress logging")
}

// ensureServices wires the config store, GitHub client and search
// service. It is a no-op when a service is already injected.
func ensureServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verboseFlag)

	if searchService != nil {
		return nil
	}

	store, err := file.NewConfigStore("")
	if err != nil {
		return err
	}
	configStore = store

	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		token = store.GetString(file.KeyGitHubToken)
	}
	if token == "" {
		logger.Warn("No GitHub token configured, using the anonymous rate limit")
	}

	client := github.NewClient(cmd.Context(), token)
	registry := services.NewSessionRegistry(0)
	searchService = services.NewSearchService(client, registry, store.BranchDelay(services.DefaultBranchDelay))

	return nil
}
