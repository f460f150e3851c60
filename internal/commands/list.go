package commands

import (
	"context"
	"flag"
	"io"

	"tasklist/internal/config"
	"tasklist/internal/engine"
	"tasklist/internal/exitcode"
	"tasklist/internal/output"
	"tasklist/internal/store"
	"tasklist/internal/task"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `tasklist` (no args) and `tasklist list`.
// The --open value applies to one Run only.
type ListCmd struct {
	open bool
}

// SetOpenOnly hides completed tasks on the next Run (for testing).
func (c *ListCmd) SetOpenOnly(open bool) {
	c.open = open
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks, newest first" }
func (c *ListCmd) Usage() string     { return "tasklist list [--open]" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.open, "open", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, st store.Store, args []string, out, errOut io.Writer) int {
	openOnly := c.open
	c.open = false

	if len(args) > 0 {
		return tooManyArgs(errOut, args)
	}

	return withEngine(ctx, cfg, st, errOut, func(eng *engine.Engine) int {
		tasks := eng.Snapshot()
		if openOnly {
			tasks = openTasks(tasks)
		}

		if len(tasks) == 0 && cfg.Quiet {
			return exitcode.Success
		}
		output.FormatList(out, tasks)
		return exitcode.Success
	})
}

func openTasks(tasks []task.Task) []task.Task {
	out := tasks[:0]
	for _, t := range tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}
