package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/annotate-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the drawing defaults used by new workspaces,
the default render size and the file watcher.

Use subcommands to change single keys or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a single setting",
	Long: `Set a single setting by its key, as listed by 'annotate settings show'.

Examples:
  annotate settings set draw.line_width 3
  annotate settings set display.color_mode class
  annotate settings set render.width 1024`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore every setting to its default",
	RunE:  runSettingsReset,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("Current Settings")
	cmd.Println("================")

	section := ""
	for _, key := range settingsService.Keys() {
		value, err := settingsService.Value(key)
		if err != nil {
			return fmt.Errorf("failed to get %s: %w", key, err)
		}
		group, name, _ := strings.Cut(key, ".")
		if group != section {
			section = group
			cmd.Println()
			cmd.Printf("[%s]\n", group)
		}
		cmd.Printf("  %s = %s\n", name, value)
	}
	cmd.Println()

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'annotate settings reset' to restore the defaults.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Reset(); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	cmd.Println("Settings restored to defaults.")
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("Annotate Settings Wizard")
	cmd.Println("========================")
	cmd.Println("Press Enter to keep the current value.")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())
	for step, key := range settingsService.Keys() {
		current, err := settingsService.Value(key)
		if err != nil {
			return fmt.Errorf("failed to get %s: %w", key, err)
		}
		cmd.Printf("Step %d: %s\n", step+1, key)

		choices := keyChoices(key)
		var value string
		if len(choices) > 0 {
			defaultIdx := 1
			for i, c := range choices {
				if c == current {
					defaultIdx = i + 1
				}
				cmd.Printf("  %d. %s\n", i+1, c)
			}
			cmd.Printf("Enter choice [%d]: ", defaultIdx)
			value = choices[parseChoice(readLine(reader), len(choices), defaultIdx)-1]
		} else {
			cmd.Printf("Value [%s]: ", current)
			if value = readLine(reader); value == "" {
				value = current
			}
		}

		if value == current {
			cmd.Println()
			continue
		}
		if err := settingsService.Set(key, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
		cmd.Printf("Set %s = %s\n\n", key, value)
	}

	cmd.Println("Settings saved.")
	return nil
}

// keyChoices lists the allowed values of enumerated keys.
func keyChoices(key string) []string {
	var out []string
	switch key {
	case "display.color_mode":
		for _, m := range domain.AllColorModes() {
			out = append(out, m.String())
		}
	case "display.mask_mode":
		for _, m := range domain.AllMaskModes() {
			out = append(out, m.String())
		}
	case "draw.show_labels":
		out = []string{"true", "false"}
	}
	return out
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
