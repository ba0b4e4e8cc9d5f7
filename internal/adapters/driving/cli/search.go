package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/branchseek/branchseek/internal/core/domain"
)

var (
	searchRepo        string
	searchNoFiles     bool
	searchNoFilenames bool
	searchExtensions  []string
	searchMaxResults  int
	searchJSON        bool
)

var searchCmd = &cobra.Command{
	Use:   "search [keyword]",
	Short: "Search all branches of a repository for a keyword",
	Long: `Searches every branch of a GitHub repository for a keyword.
Content matches are located line by line with surrounding context;
filename matches are found in each branch's full file tree.

Branches are searched one at a time with a pause between them to stay
inside the GitHub API rate limit. Progress is printed as the search
moves from branch to branch.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchRepo, "repo", "r", "", "target repository in owner/name form (required)")
	searchCmd.Flags().BoolVar(&searchNoFiles, "no-files", false, "skip file content search")
	searchCmd.Flags().BoolVar(&searchNoFilenames, "no-filenames", false, "skip filename search")
	searchCmd.Flags().StringSliceVarP(&searchExtensions, "extensions", "e", nil, "file extensions to filter by (e.g. .js,.py)")
	searchCmd.Flags().IntVarP(&searchMaxResults, "max-results", "n", domain.DefaultMaxResults, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.MarkFlagRequired("repo") //nolint:errcheck
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	req := domain.SearchRequest{
		Keyword:           args[0],
		Repository:        searchRepo,
		SearchInFiles:     !searchNoFiles,
		SearchInFilenames: !searchNoFilenames,
		FileExtensions:    searchExtensions,
		MaxResults:        searchMaxResults,
	}

	if searchJSON {
		results, err := searchService.SearchAndWait(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		return outputResultsJSON(cmd, results)
	}

	sessionID, err := searchService.StartSearch(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	events, cancel, err := searchService.Subscribe(sessionID)
	if err != nil {
		return err
	}
	defer cancel()

	for ev := range events {
		printEvent(cmd, ev)

		switch ev.Kind {
		case domain.EventComplete:
			results, err := searchService.Results(sessionID)
			if err != nil {
				return err
			}
			return outputResultsTable(cmd, results)
		case domain.EventError:
			return fmt.Errorf("search failed: %s", ev.Message)
		}
	}

	return errors.New("progress stream ended unexpectedly")
}

// printEvent renders one progress event as a terminal line.
func printEvent(cmd *cobra.Command, ev domain.ProgressEvent) {
	switch ev.Kind {
	case domain.EventBranch:
		index, _ := ev.Payload["branchIndex"].(int)
		total, _ := ev.Payload["totalBranches"].(int)
		cmd.Printf("[%d/%d] %s\n", index+1, total, ev.Payload["branchName"])
	case domain.EventWarning:
		cmd.Printf("warning: %s\n", ev.Message)
	case domain.EventStart, domain.EventInfo, domain.EventResults:
		cmd.Println(ev.Message)
	}
}

func outputResultsJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputResultsTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println()
	cmd.Printf("Found %d results:\n", len(results))
	cmd.Println()
	for i := range results {
		r := results[i]
		location := r.FilePath
		if r.LineNumber > 0 {
			location = fmt.Sprintf("%s:%d", r.FilePath, r.LineNumber)
		}

		cmd.Printf("  [%d] %s @ %s (%s, %.0f)\n", i+1, location, r.Branch, r.Kind, r.Score)
		if r.URL != "" {
			cmd.Printf("      %s\n", r.URL)
		}
		cmd.Println()
	}

	return nil
}
