package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasklist/internal/config"
	"tasklist/internal/engine"
	"tasklist/internal/exitcode"
	"tasklist/internal/store"
	"tasklist/internal/task"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "tasklist add <title...>" }
func (c *AddCmd) NeedsStore() bool  { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, st store.Store, args []string, out, errOut io.Writer) int {
	// Validate before touching the store; the engine drops bad titles silently.
	title, err := task.ValidateTitle(strings.Join(args, " "))
	switch {
	case errors.Is(err, task.ErrEmptyTitle):
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	case errors.Is(err, task.ErrTitleTooLong):
		fmt.Fprintf(errOut, "error: title too long (max %d characters)\n", task.MaxTitleLen)
		return exitcode.UserError
	}

	code := withEngine(ctx, cfg, st, errOut, func(eng *engine.Engine) int {
		if _, ok, err := eng.Add(title); err != nil || !ok {
			fmt.Fprintf(errOut, "error: task not added: %s\n", title)
			return exitcode.UserError
		}
		return exitcode.Success
	})
	if code == exitcode.Success && !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return code
}
