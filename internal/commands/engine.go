package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"tasklist/internal/config"
	"tasklist/internal/engine"
	"tasklist/internal/exitcode"
	"tasklist/internal/store"
)

// SaveTimeout bounds how long a mutating command waits for its write.
const SaveTimeout = 30 * time.Second

// openEngine creates an engine on st and loads the task list.
func openEngine(ctx context.Context, cfg *config.Config, st store.Store, opts ...engine.Option) (*engine.Engine, error) {
	opts = append([]engine.Option{engine.WithKey(cfg.Key)}, opts...)
	eng := engine.New(st, opts...)
	if err := eng.Load(ctx); err != nil {
		eng.Close(ctx)
		return nil, err
	}
	return eng, nil
}

// closeEngine waits for pending saves and stops the engine. It returns a
// non-zero exit code, after printing an error, when any write failed.
func closeEngine(ctx context.Context, eng *engine.Engine, errOut io.Writer) int {
	ctx, cancel := context.WithTimeout(ctx, SaveTimeout)
	defer cancel()

	if err := eng.Close(ctx); err != nil {
		fmt.Fprintf(errOut, "error: store error: %v\n", err)
		return exitcode.StoreError
	}
	if eng.SaveFailures() > 0 {
		fmt.Fprintln(errOut, "error: store error: failed to save task list")
		return exitcode.StoreError
	}
	return exitcode.Success
}

// withEngine loads the task list, calls fn, then flushes. fn's exit code
// wins unless it succeeded and the save did not.
func withEngine(ctx context.Context, cfg *config.Config, st store.Store, errOut io.Writer, fn func(eng *engine.Engine) int) int {
	eng, err := openEngine(ctx, cfg, st)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.StoreError
	}

	code := fn(eng)
	if closeCode := closeEngine(ctx, eng, errOut); code == exitcode.Success {
		code = closeCode
	}
	return code
}
