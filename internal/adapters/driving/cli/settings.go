package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/branchseek/branchseek/internal/adapters/driven/config/file"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the GitHub token, server port, rate-limit delay
and other options stored in ~/.branchseek/config.toml.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a setting",
	Long: `Set a configuration value. Known keys:

  github.token             GitHub personal access token
  server.port              HTTP server port
  search.branch_delay_ms   pause between branch searches, in milliseconds
  search.max_results       default result cap
  logging.verbose          enable verbose logging by default`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsTokenCmd = &cobra.Command{
	Use:   "token [token]",
	Short: "Set the GitHub token",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsToken,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsTokenCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[GitHub]")
	if token := configStore.GetString(file.KeyGitHubToken); token != "" {
		cmd.Printf("  Token: %s\n", maskToken(token))
	} else {
		cmd.Printf("  Token: (not set)\n")
	}
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Port: %d\n", intOr(configStore.GetInt(file.KeyServerPort), 3000))
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Branch delay: %dms\n", intOr(configStore.GetInt(file.KeyBranchDelayMS), 1000))
	cmd.Printf("  Max results: %d\n", intOr(configStore.GetInt(file.KeyMaxResults), 50))
	cmd.Println()

	cmd.Printf("Config file: %s\n", configStore.Path())
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]

	// Store integers and booleans natively so typed getters work.
	var value any = raw
	if n, err := strconv.Atoi(raw); err == nil {
		value = n
	} else if b, err := strconv.ParseBool(raw); err == nil {
		value = b
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

func runSettingsToken(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	if err := configStore.Set(file.KeyGitHubToken, args[0]); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	cmd.Printf("GitHub token saved to %s\n", configStore.Path())
	return nil
}

// maskToken hides all but the first and last few characters of a token.
func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func intOr(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}
