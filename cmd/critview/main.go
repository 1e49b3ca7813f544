package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"critview/internal/app"
	"critview/internal/config"
	"critview/internal/review"
	"critview/internal/vcs"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
)

func build() string {
	v, c := version, commit
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					c = s.Value
				}
			}
		}
	}
	short := c
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("%s (%s)", v, short)
}

type cliFlags struct {
	DBPath   string
	RepoDir  string
	Author   string
	ReviewID string
	Status   string
	LogLevel string
	LogFile  string
}

func main() {
	var (
		flags     cliFlags
		logCloser = func() {}
	)

	cmd := &cli.Command{
		Name:    "critview",
		Usage:   "terminal client for browsing and annotating code reviews",
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "db",
				Usage:       "path to the review database",
				Sources:     cli.EnvVars("CRITVIEW_DB"),
				Destination: &flags.DBPath,
			},
			&cli.StringFlag{
				Name:        "repo",
				Usage:       "repository to read file contents from",
				Sources:     cli.EnvVars("CRITVIEW_REPO"),
				Value:       ".",
				Destination: &flags.RepoDir,
			},
			&cli.StringFlag{
				Name:        "author",
				Usage:       "author recorded on comments",
				Sources:     cli.EnvVars("CRITVIEW_AUTHOR"),
				Destination: &flags.Author,
			},
			&cli.StringFlag{
				Name:        "review",
				Usage:       "open a review by id on startup",
				Sources:     cli.EnvVars("CRITVIEW_REVIEW"),
				Destination: &flags.ReviewID,
			},
			&cli.StringFlag{
				Name:        "status",
				Usage:       "filter the review list by status",
				Sources:     cli.EnvVars("CRITVIEW_STATUS"),
				Destination: &flags.Status,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Sources:     cli.EnvVars("CRITVIEW_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file",
				Sources:     cli.EnvVars("CRITVIEW_LOG_FILE"),
				Destination: &flags.LogFile,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, cfgPath, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config %s: %w", cfgPath, err)
			}

			// stdout belongs to the TUI, so logs always go to a file.
			logger, closer, err := newLogger(flags.LogLevel, flags.LogFile)
			if err != nil {
				return fmt.Errorf("setup logger: %w", err)
			}
			logCloser = closer

			dbPath := flags.DBPath
			if dbPath == "" {
				dbPath = cfg.DBPath
			}
			if dbPath == "" {
				dbPath, err = defaultDBPath()
				if err != nil {
					return fmt.Errorf("resolve database path: %w", err)
				}
			}
			author := flags.Author
			if author == "" {
				author = cfg.Author
			}
			if author == "" {
				author = os.Getenv("USER")
			}

			store, err := review.OpenSQLite(dbPath, author)
			if err != nil {
				return fmt.Errorf("open review database %s: %w", dbPath, err)
			}
			defer store.Close()

			repo, ok := vcs.Open(flags.RepoDir)
			if !ok {
				logger.Warn().Str("dir", flags.RepoDir).Msg("no repository found, file contents unavailable")
				repo = nil
			}

			logger.Info().
				Str("db", dbPath).
				Str("version", build()).
				Msg("starting critview")

			model := app.NewModel(app.Options{
				Store:    store,
				Repo:     repo,
				Config:   cfg,
				Logger:   logger,
				ReviewID: flags.ReviewID,
				Status:   flags.Status,
			})

			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("run: %w", err)
			}
			return nil
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	logCloser()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(level, file string) (zerolog.Logger, func(), error) {
	closer := func() {}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, closer, err
	}

	if file == "" {
		dir, err := stateHome()
		if err != nil {
			return zerolog.Logger{}, closer, err
		}
		file = filepath.Join(dir, "critview", "critview.log")
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return zerolog.Logger{}, closer, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Logger{}, closer, err
	}
	closer = func() { _ = f.Close() }

	l := zerolog.New(f).
		With().
		Timestamp().
		Logger().
		Level(lvl)
	return l, closer, nil
}

func defaultDBPath() (string, error) {
	dir, err := dataHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "critview", "reviews.db"), nil
}

func dataHome() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); xdg != "" {
		return xdg, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share"), nil
}

func stateHome() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); xdg != "" {
		return xdg, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state"), nil
}
