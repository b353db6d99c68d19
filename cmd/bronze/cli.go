package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/config"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/errors"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/history"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/logdoc"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/ops"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/watch"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/web"
)

// newCLIApp creates the CLI application with all commands. globalBase is the
// per-user config directory (~/.bronze); workspace config overrides it.
func newCLIApp(globalBase string) *cli.App {
	app := &cli.App{
		Name:    "bronze",
		Usage:   "Markdown system log rotation and inbox watcher",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Value: ".", Usage: "Workspace directory"},
		},
		Commands: []*cli.Command{
			rotateCmd(globalBase),
			logCmd(globalBase),
			statusCmd(globalBase),
			historyCmd(globalBase),
			archivesCmd(globalBase),
			watchCmd(globalBase),
			serveCmd(globalBase),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// openWorkspace resolves the --dir flag and loads layered configuration.
func openWorkspace(c *cli.Context, globalBase string) (*config.Config, string, error) {
	dir, err := filepath.Abs(c.String("dir"))
	if err != nil {
		return nil, "", errors.NewInvalidRequest(fmt.Sprintf("invalid workspace directory: %v", err))
	}
	cfg, err := config.LoadWithWorkspace(globalBase, dir)
	if err != nil {
		return nil, "", errors.NewInternal(err)
	}
	return cfg, dir, nil
}

// openJournal opens the workspace rotation journal at <dir>/.bronze/bronze.db.
func openJournal(cfg *config.Config, dir string) (*sql.DB, error) {
	db, err := history.Init(filepath.Join(dir, config.DotDir))
	if err != nil {
		return nil, err
	}
	history.ConfigurePool(db, cfg)
	return db, nil
}

// rotateCmd creates the rotate command.
func rotateCmd(globalBase string) *cli.Command {
	return &cli.Command{
		Name:  "rotate",
		Usage: "Move past date groups out of the live log into per-date archives",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "today", Usage: "Override the current date (YYYY-MM-DD)"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Plan the rotation without writing any file"},
			&cli.BoolFlag{Name: "no-backup", Usage: "Skip the pre-rotation backup copy"},
		},
		Action: func(c *cli.Context) error {
			cfg, dir, err := openWorkspace(c, globalBase)
			if err != nil {
				return outputError(err)
			}

			input := ops.RotateInput{
				DryRun:   c.Bool("dry-run"),
				NoBackup: c.Bool("no-backup"),
			}
			if today := c.String("today"); today != "" {
				input.Today, err = logdoc.ParseDate(today)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
			}

			var db *sql.DB
			if !input.DryRun {
				db, err = openJournal(cfg, dir)
				if err != nil {
					return outputError(err)
				}
				defer db.Close()
			}

			output, err := ops.Rotate(db, cfg, dir, input)
			if err != nil {
				// Dates before the failure are committed; show them too.
				if output != nil && len(output.Archived) > 0 {
					_ = outputJSON(output)
				}
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// logCmd creates the log command.
func logCmd(globalBase string) *cli.Command {
	return &cli.Command{
		Name:      "log",
		Usage:     "Append a timestamped entry to the live log",
		ArgsUsage: "<summary>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "detail", Usage: "Detail line (repeatable)"},
			&cli.StringFlag{Name: "at", Usage: "Entry time (HH:MM or HH:MM:SS, default now)"},
			&cli.StringFlag{Name: "on", Usage: "Entry date (YYYY-MM-DD, default today)"},
		},
		Action: func(c *cli.Context) error {
			cfg, dir, err := openWorkspace(c, globalBase)
			if err != nil {
				return outputError(err)
			}

			input := ops.AppendInput{
				Summary: strings.Join(c.Args().Slice(), " "),
				Details: c.StringSlice("detail"),
				At:      c.String("at"),
			}
			if on := c.String("on"); on != "" {
				input.On, err = logdoc.ParseDate(on)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
			}

			output, err := ops.Append(cfg, dir, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// statusCmd creates the status command.
func statusCmd(globalBase string) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show rotation status and live entry counts",
		Action: func(c *cli.Context) error {
			cfg, dir, err := openWorkspace(c, globalBase)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Status(cfg, dir)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// historyCmd creates the history command.
func historyCmd(globalBase string) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recorded rotation runs, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum runs to return"},
		},
		Action: func(c *cli.Context) error {
			cfg, dir, err := openWorkspace(c, globalBase)
			if err != nil {
				return outputError(err)
			}

			db, err := openJournal(cfg, dir)
			if err != nil {
				return outputError(err)
			}
			defer db.Close()

			runs, err := history.ListRuns(db, c.Int("limit"))
			if err != nil {
				return outputError(err)
			}

			return outputJSON(map[string]any{"runs": runs, "count": len(runs)})
		},
	}
}

// archivesCmd creates the archives command.
func archivesCmd(globalBase string) *cli.Command {
	return &cli.Command{
		Name:      "archives",
		Usage:     "List archived dates, or show one archive",
		ArgsUsage: "[date]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "text", Usage: "Include the raw Markdown when showing one archive"},
		},
		Action: func(c *cli.Context) error {
			cfg, dir, err := openWorkspace(c, globalBase)
			if err != nil {
				return outputError(err)
			}

			if c.NArg() == 0 {
				archives, err := ops.ListArchives(cfg, dir)
				if err != nil {
					return outputError(err)
				}
				return outputJSON(map[string]any{"archives": archives, "count": len(archives)})
			}

			date, err := logdoc.ParseDate(c.Args().First())
			if err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}
			archive, raw, err := ops.FetchArchive(cfg, dir, date)
			if err != nil {
				return outputError(err)
			}

			payload := map[string]any{
				"date":    archive.Date,
				"entries": archive.Entries,
				"count":   len(archive.Entries),
			}
			if c.Bool("text") {
				payload["text"] = raw
			}
			return outputJSON(payload)
		},
	}
}

// watchCmd creates the watch command.
func watchCmd(globalBase string) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Watch the inbox folder and file tasks for new files",
		Action: func(c *cli.Context) error {
			cfg, dir, err := openWorkspace(c, globalBase)
			if err != nil {
				return outputError(err)
			}

			if _, err := ops.EnsureLog(cfg, dir); err != nil {
				return outputError(err)
			}

			w, err := watch.New(cfg, dir)
			if err != nil {
				return outputError(err)
			}

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(globalBase string) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the read-only web UI for the log and archives",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8321, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			cfg, dir, err := openWorkspace(c, globalBase)
			if err != nil {
				return outputError(err)
			}

			if _, err := ops.EnsureLog(cfg, dir); err != nil {
				return outputError(err)
			}

			db, err := openJournal(cfg, dir)
			if err != nil {
				return outputError(err)
			}
			defer db.Close()

			srv := web.NewServer(db, cfg, dir, Version, c.String("bind"), c.Int("port"))
			if err := web.Run(srv); err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if bErr, ok := err.(*errors.BronzeError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", bErr.Code, bErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
