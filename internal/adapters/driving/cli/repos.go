package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var reposJSON bool

var reposCmd = &cobra.Command{
	Use:   "repos [keyword]",
	Short: "Search for repositories by keyword",
	Long:  `Finds GitHub repositories matching a keyword, most starred first.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRepos,
}

func init() {
	reposCmd.Flags().BoolVar(&reposJSON, "json", false, "output repositories as JSON")
	rootCmd.AddCommand(reposCmd)
}

func runRepos(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	repos, err := searchService.SearchRepositories(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("repository search failed: %w", err)
	}

	if reposJSON {
		data, err := json.MarshalIndent(repos, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal repositories: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(repos) == 0 {
		cmd.Println("No repositories found.")
		return nil
	}

	for i, r := range repos {
		cmd.Printf("  [%d] %s (%d stars)\n", i+1, r.FullName, r.Stars)
		if r.Description != "" {
			cmd.Printf("      %s\n", r.Description)
		}
		cmd.Printf("      %s\n", r.URL)
		cmd.Println()
	}

	return nil
}
