package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gssantosss/horariosautomaticosloga/internal/config"
	"github.com/gssantosss/horariosautomaticosloga/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  horarios config
  horarios config --show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if show {
				printConfig(cmd.OutOrStdout(), config.DefaultConfigPath(), a.config)
				return nil
			}
			return runConfigInteractive(cmd.InOrStdin(), cmd.OutOrStdout(), config.DefaultConfigPath())
		},
	}

	cmd.Flags().BoolVar(&show, "show", false, "Print the effective configuration and exit")
	return cmd
}

func runConfigInteractive(in io.Reader, out io.Writer, configPath string) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, configPath, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	n := &cfg.Normalize
	n.GapThresholdMinutes = promptInt(reader, out, "Gap threshold (minutes)", n.GapThresholdMinutes)
	n.GapInclusive = promptBool(reader, out, "Flag gaps equal to the threshold", n.GapInclusive)
	n.EveningHour = promptInt(reader, out, "Evening hour", n.EveningHour)
	n.MorningHour = promptInt(reader, out, "Morning hour", n.MorningHour)
	n.CrossingPolicy = promptValue(reader, out, "Crossing policy (heuristic, shift, either, both)", n.CrossingPolicy)
	n.CrossingShifts = promptSlice(reader, out, "Crossing shifts (comma-separated)", n.CrossingShifts)
	cfg.Summary.CountMode = promptValue(reader, out, "Sector count mode (orders, agenda)", cfg.Summary.CountMode)
	cfg.Storage.History = promptBool(reader, out, "Record run history", cfg.Storage.History)
	cfg.Storage.DBPath = promptValue(reader, out, "Database path", cfg.Storage.DBPath)
	cfg.Server.Addr = promptValue(reader, out, "Server address", cfg.Server.Addr)
	cfg.UI.Theme = promptTheme(reader, out, cfg.UI.Theme)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, path string, cfg *config.Config) {
	fmt.Fprintf(out, "Current configuration (%s):\n", path)
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[normalize]")
	fmt.Fprintf(out, "  gap_threshold_minutes = %d\n", cfg.Normalize.GapThresholdMinutes)
	fmt.Fprintf(out, "  gap_inclusive         = %t\n", cfg.Normalize.GapInclusive)
	fmt.Fprintf(out, "  evening_hour          = %d\n", cfg.Normalize.EveningHour)
	fmt.Fprintf(out, "  morning_hour          = %d\n", cfg.Normalize.MorningHour)
	fmt.Fprintf(out, "  crossing_policy       = %s\n", cfg.Normalize.CrossingPolicy)
	fmt.Fprintf(out, "  crossing_shifts       = %s\n", strings.Join(cfg.Normalize.CrossingShifts, ", "))
	fmt.Fprintf(out, "  parallel              = %t\n", cfg.Normalize.Parallel)
	fmt.Fprintln(out, "\n[summary]")
	fmt.Fprintf(out, "  count_mode            = %s\n", cfg.Summary.CountMode)
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  history               = %t\n", cfg.Storage.History)
	fmt.Fprintf(out, "  db_path               = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(out, "\n[server]")
	fmt.Fprintf(out, "  addr                  = %s\n", cfg.Server.Addr)
	fmt.Fprintf(out, "  cache_size            = %d\n", cfg.Server.CacheSize)
	fmt.Fprintf(out, "  cache_ttl             = %s\n", cfg.Server.CacheTTL)
	fmt.Fprintf(out, "  max_upload_mb         = %d\n", cfg.Server.MaxUploadMB)
	fmt.Fprintln(out, "\n[log]")
	fmt.Fprintf(out, "  level                 = %s\n", cfg.Log.Level)
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  theme                 = %s\n", cfg.UI.Theme)
}

func promptYesNo(reader *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, out io.Writer, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, out io.Writer, label string, current int) int {
	for {
		value := promptValue(reader, out, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(out, "  Invalid number %q.\n", value)
		if _, err := reader.Peek(1); err != nil {
			return current
		}
	}
}

func promptBool(reader *bufio.Reader, out io.Writer, label string, current bool) bool {
	value := promptValue(reader, out, label+" (true/false)", strconv.FormatBool(current))
	b, err := strconv.ParseBool(value)
	if err != nil {
		fmt.Fprintf(out, "  Invalid value %q, keeping %t.\n", value, current)
		return current
	}
	return b
}

func promptSlice(reader *bufio.Reader, out io.Writer, label string, current []string) []string {
	currentStr := strings.Join(current, ", ")
	fmt.Fprintf(out, "  %s [%s]: ", label, currentStr)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func promptTheme(reader *bufio.Reader, out io.Writer, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, out, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(out, "  Invalid theme %q. Available: %s\n", value, options)
		if _, err := reader.Peek(1); err != nil {
			return current
		}
	}
}
