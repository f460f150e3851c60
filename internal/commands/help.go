package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/store"
)

func init() {
	Register(&HelpCmd{registry: DefaultRegistry})
}

// HelpCmd implements the help command.
type HelpCmd struct {
	registry *Registry
}

// NewHelpCmd returns a help command listing the commands in r.
func NewHelpCmd(r *Registry) *HelpCmd {
	return &HelpCmd{registry: r}
}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "tasklist help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, st store.Store, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, c.text())
	return exitcode.Success
}

func (c *HelpCmd) text() string {
	var b strings.Builder
	b.WriteString("Usage:\n")
	fmt.Fprintf(&b, "  %-28s %s\n", "tasklist", "List tasks (same as list)")
	for _, cmd := range c.registry.All() {
		fmt.Fprintf(&b, "  %-28s %s\n", cmd.Usage(), synopsis(cmd))
	}
	b.WriteString(commonFlags)
	return b.String()
}

func synopsis(cmd Command) string {
	if aliases := cmd.Aliases(); len(aliases) > 0 {
		return fmt.Sprintf("%s (alias: %s)", cmd.Synopsis(), strings.Join(aliases, ", "))
	}
	return cmd.Synopsis()
}

const commonFlags = `
Common flags:
  --config <dir>   Override config directory
  --backend <name> Store backend: sqlite, mysql, postgres, googletasks
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
