package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"tasklist/internal/config"
	"tasklist/internal/engine"
	"tasklist/internal/exitcode"
	"tasklist/internal/logging"
	"tasklist/internal/store"
	"tasklist/internal/theme"
	"tasklist/internal/ui"
)

// LogFile receives engine logs while the terminal UI owns the screen.
const LogFile = "tasklist.log"

// RunUI runs the terminal UI. Replaced in tests.
var RunUI = ui.Run

func init() {
	Register(&UICmd{})
}

// UICmd implements the ui command.
type UICmd struct {
	theme string
}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return nil }
func (c *UICmd) Synopsis() string  { return "Open the interactive task list" }
func (c *UICmd) Usage() string     { return "tasklist ui [--theme <name>]" }
func (c *UICmd) NeedsStore() bool  { return true }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.theme, "theme", "", "")
}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, st store.Store, args []string, out, errOut io.Writer) int {
	flagTheme := c.theme
	c.theme = ""

	if len(args) > 0 {
		return tooManyArgs(errOut, args)
	}

	name := cfg.Theme
	if flagTheme != "" {
		name = flagTheme
	}
	th, err := theme.Parse(name)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.ConfigError
	}
	logFile, err := os.OpenFile(filepath.Join(cfg.Dir, LogFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to open log file: %v\n", err)
		return exitcode.ConfigError
	}
	defer logFile.Close()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := logging.New(logFile, level)
	eng := engine.New(st, engine.WithKey(cfg.Key), engine.WithLogger(log))

	uiErr := RunUI(ctx, eng, th)
	code := closeEngine(ctx, eng, errOut)
	if uiErr != nil {
		fmt.Fprintf(errOut, "error: %v\n", uiErr)
		return exitcode.UserError
	}
	return code
}
