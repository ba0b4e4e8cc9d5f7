package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/branchseek/branchseek/internal/core/domain"
)

var branchesJSON bool

var branchesCmd = &cobra.Command{
	Use:   "branches [owner/repo]",
	Short: "List all branches of a repository",
	Long: `Lists every branch of a GitHub repository with its head commit,
marking the conventional default branch.`,
	Args: cobra.ExactArgs(1),
	RunE: runBranches,
}

func init() {
	branchesCmd.Flags().BoolVar(&branchesJSON, "json", false, "output branches as JSON")
	rootCmd.AddCommand(branchesCmd)
}

func runBranches(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	repository := args[0]
	branches, err := searchService.ListBranches(cmd.Context(), repository)
	if err != nil {
		return fmt.Errorf("listing branches failed: %w", err)
	}

	if branchesJSON {
		data, err := json.MarshalIndent(branches, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal branches: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(branches) == 0 {
		cmd.Printf("No branches found for %s.\n", repository)
		return nil
	}

	cmd.Printf("Branches in %s (%d):\n", repository, len(branches))
	cmd.Println()
	for i, b := range branches {
		cmd.Printf("  [%d] %s%s\n", i+1, b.Name, defaultMarker(b))
		if b.HeadCommitSHA != "" {
			cmd.Printf("      head: %s\n", b.HeadCommitSHA)
		}
	}

	return nil
}

func defaultMarker(b domain.Branch) string {
	if b.IsDefault {
		return " (default)"
	}
	return ""
}
