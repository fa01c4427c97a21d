// Package ui implements the horarios command line.
package ui

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/gssantosss/horariosautomaticosloga/internal/config"
	"github.com/gssantosss/horariosautomaticosloga/internal/db"
	"github.com/gssantosss/horariosautomaticosloga/internal/history"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config *config.Config
	root   *cobra.Command
	debug  bool // Force debug logging
	logger *slog.Logger

	repo     history.Repository // opened on first use
	openRepo func(path string) (history.Repository, error)
	now      func() time.Time
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config) *App {
	a := &App{
		config: cfg,
		openRepo: func(path string) (history.Repository, error) {
			return db.New(path)
		},
		now: time.Now,
	}

	a.root = &cobra.Command{
		Use:   "horarios",
		Short: "Normalize waste-collection route timetables",
		Long: `Horarios reads a route spreadsheet with HORARIO<D>/ORDEM<D> column pairs,
reconciles each weekday's schedule across midnight, flags gaps between
consecutive collection points and exports a per-day agenda.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setupLogger(cmd.ErrOrStderr())
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging on stderr")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.normalizeCmd())
	a.root.AddCommand(a.previewCmd())
	a.root.AddCommand(a.chartCmd())
	a.root.AddCommand(a.serveCmd())
	a.root.AddCommand(a.historyCmd())

	return a
}

func (a *App) setupLogger(w io.Writer) error {
	level, err := a.config.LogLevel()
	if err != nil {
		return err
	}
	if a.debug {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return nil
}

func (a *App) log() *slog.Logger {
	if a.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return a.logger
}

// history returns the run repository, opening it on first use.
func (a *App) history() (history.Repository, error) {
	if a.repo != nil {
		return a.repo, nil
	}
	repo, err := a.openRepo(a.config.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	a.repo = repo
	return repo, nil
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "horarios %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the history database, if it was opened.
func (a *App) Close() error {
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}
