package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/ripple/internal/config"
	"github.com/hpungsan/ripple/internal/errors"
	"github.com/hpungsan/ripple/internal/ops"
	"github.com/hpungsan/ripple/internal/pattern"
	"github.com/hpungsan/ripple/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, engine *pattern.Engine) *cli.App {
	app := &cli.App{
		Name:    "ripple",
		Usage:   "Local journal with pattern reflection",
		Version: Version,
		Commands: []*cli.Command{
			addCmd(db, cfg),
			listCmd(db),
			latestCmd(db),
			deleteCmd(db),
			exportCmd(db, cfg),
			reflectCmd(db, engine),
			uiCmd(db, cfg, engine),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// addCmd creates the add command.
func addCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add a journal entry (reads body from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "journal", Aliases: []string{"j"}, Value: "default", Usage: "Journal name"},
			&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Entry date (YYYY-MM-DD, default: today)"},
			&cli.StringFlag{Name: "prompt1", Usage: "First guided prompt"},
			&cli.StringFlag{Name: "p1-answer", Usage: "Answer to prompt1"},
			&cli.StringFlag{Name: "prompt2", Usage: "Second guided prompt"},
			&cli.StringFlag{Name: "p2-answer", Usage: "Answer to prompt2"},
			&cli.BoolFlag{Name: "vent", Usage: "Mark the entry as a vent"},
		},
		Action: func(c *cli.Context) error {
			// Require stdin input
			if !stdinHasData() {
				return outputError(errors.NewInvalidRequest("entry body must be piped via stdin"))
			}

			body, err := readStdin(maxStdinBytes)
			if err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}
			if body == "" {
				return outputError(errors.NewInvalidRequest("body is required"))
			}

			input := ops.AddInput{
				Journal:  c.String("journal"),
				Date:     c.String("date"),
				Body:     body,
				Prompt1:  c.String("prompt1"),
				P1Answer: c.String("p1-answer"),
				Prompt2:  c.String("prompt2"),
				P2Answer: c.String("p2-answer"),
				Vent:     c.Bool("vent"),
			}

			output, err := ops.Add(db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List entries in a journal, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "journal", Aliases: []string{"j"}, Value: "default", Usage: "Journal name"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ListInput{
				Journal: c.String("journal"),
				Limit:   c.Int("limit"),
				Offset:  c.Int("offset"),
			}

			output, err := ops.List(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// latestCmd creates the latest command.
func latestCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "latest",
		Usage: "Get the most recent entry in a journal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "journal", Aliases: []string{"j"}, Value: "default", Usage: "Journal name"},
			&cli.BoolFlag{Name: "include-text", Usage: "Include the full entry body"},
		},
		Action: func(c *cli.Context) error {
			input := ops.LatestInput{
				Journal: c.String("journal"),
			}

			if c.Bool("include-text") {
				includeText := true
				input.IncludeText = &includeText
			}

			output, err := ops.Latest(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Permanently delete an entry by ID",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("entry ID is required"))
			}

			output, err := ops.Delete(db, ops.DeleteInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export entries to a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.ripple/exports/<journal>-<timestamp>.jsonl)"},
			&cli.StringFlag{Name: "journal", Aliases: []string{"j"}, Usage: "Export only this journal (default: all)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ExportInput{
				Path:    c.String("path"),
				Journal: c.String("journal"),
			}

			output, err := ops.Export(c.Context, db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// reflectCmd creates the reflect command.
func reflectCmd(db *sql.DB, engine *pattern.Engine) *cli.Command {
	return &cli.Command{
		Name:  "reflect",
		Usage: "Run the pattern reflection over a journal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "journal", Aliases: []string{"j"}, Value: "default", Usage: "Journal name"},
			&cli.BoolFlag{Name: "force-refresh", Usage: "Bypass the result cache"},
			&cli.BoolFlag{Name: "debug", Usage: "Attach diagnostic detail to the outcome"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ReflectInput{
				Journal:      c.String("journal"),
				ForceRefresh: c.Bool("force-refresh"),
				Debug:        c.Bool("debug"),
			}

			output, err := ops.Reflect(c.Context, db, engine, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// uiCmd creates the ui command, which serves the local web interface.
func uiCmd(db *sql.DB, cfg *config.Config, engine *pattern.Engine) *cli.Command {
	return &cli.Command{
		Name:  "ui",
		Usage: "Serve the local web interface",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind to"},
			&cli.IntFlag{Name: "port", Value: 7733, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, cfg, engine, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
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
	if rippleErr, ok := err.(*errors.RippleError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", rippleErr.Code, rippleErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// maxStdinBytes caps how much entry text the add command will read.
const maxStdinBytes = 1 << 20

// readStdin reads content from stdin up to limit bytes.
func readStdin(limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(os.Stdin, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("stdin input exceeds %d bytes", limit)
	}
	return strings.TrimSpace(string(data)), nil
}
