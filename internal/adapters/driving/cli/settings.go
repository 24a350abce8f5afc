package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/topicos/internal/core/domain"
)

var settingsFallback bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the completion providers and pipeline tuning.

Use subcommands to configure specific settings.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsCompletionCmd = &cobra.Command{
	Use:   "completion",
	Short: "Configure a completion provider",
	Long: `Configure the completion provider used for ranking, contact
extraction, and deep dives. Use --fallback to configure the fallback
provider used when the primary is unavailable.`,
	RunE: runSettingsCompletion,
}

var settingsPipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Tune the batch pipeline",
	RunE:  runSettingsPipeline,
}

func init() {
	settingsCompletionCmd.Flags().BoolVar(&settingsFallback, "fallback", false, "configure the fallback provider")
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsCompletionCmd)
	settingsCmd.AddCommand(settingsPipelineCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	printCompletionSettings(cmd, "Completion (primary)", settings.Primary)
	printCompletionSettings(cmd, "Completion (fallback)", settings.Fallback)

	cmd.Println("[Pipeline]")
	cmd.Printf("  Inter-topic delay:   %s\n", settings.Pipeline.InterTopicDelay)
	cmd.Printf("  Max contact records: %d\n", settings.Pipeline.MaxContactRecords)
	cmd.Println()

	return nil
}

func printCompletionSettings(cmd *cobra.Command, header string, s domain.CompletionSettings) {
	cmd.Printf("[%s]\n", header)
	cmd.Printf("  Provider: %s\n", s.Provider.Description())
	if s.Model != "" {
		cmd.Printf("  Model: %s\n", s.Model)
	}
	if s.Provider.IsLocal() && s.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", s.BaseURL)
	}
	if s.Provider.RequiresAPIKey() {
		if s.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(s.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !s.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()
}

func runSettingsCompletion(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	slot := "primary"
	if settingsFallback {
		slot = "fallback"
	}
	cmd.Printf("Configure %s completion provider\n", slot)
	cmd.Println("--------------------------------------")

	providers := []domain.AIProvider{
		domain.AIProviderAnthropic,
		domain.AIProviderOpenAI,
		domain.AIProviderOllama,
	}
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	provider := providers[idx-1]

	settings := domain.CompletionSettings{Provider: provider}

	cmd.Print("Model (empty for provider default): ")
	settings.Model = readLine(reader)

	if provider.IsLocal() {
		cmd.Print("Base URL [http://localhost:11434]: ")
		settings.BaseURL = readLine(reader)
	}

	if provider.RequiresAPIKey() {
		cmd.Print("API key: ")
		settings.APIKey = readPassword()
		cmd.Println()
	}

	cmd.Print("Validating... ")
	if err := settingsService.SetCompletion(settings, settingsFallback); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("completion configuration failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("%s completion provider set to %s\n", slot, provider.Description())
	return nil
}

func runSettingsPipeline(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	current, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)
	settings := current.Pipeline

	cmd.Printf("Inter-topic delay in seconds [%g]: ", settings.InterTopicDelay.Seconds())
	if input := readLine(reader); input != "" {
		secs, err := strconv.ParseFloat(input, 64)
		if err != nil || secs < 0 {
			return fmt.Errorf("invalid delay %q", input)
		}
		settings.InterTopicDelay = time.Duration(secs * float64(time.Second))
	}

	cmd.Printf("Max contact records per topic [%d]: ", settings.MaxContactRecords)
	if input := readLine(reader); input != "" {
		n, err := strconv.Atoi(input)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid record cap %q", input)
		}
		settings.MaxContactRecords = n
	}

	if err := settingsService.SetPipeline(settings); err != nil {
		return fmt.Errorf("failed to save pipeline settings: %w", err)
	}

	cmd.Println("Pipeline settings saved.")
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
