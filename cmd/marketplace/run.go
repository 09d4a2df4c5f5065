package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/fx"
)

var stderr io.Writer = os.Stderr

// run starts app, blocks until ctx is cancelled or app requests shutdown and
// returns the process exit code.
func run(ctx context.Context, app *fx.App) int {
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(stderr, "failed to start application: %v\n", err)
		return 1
	}

	code := 0
	select {
	case <-ctx.Done():
	case sig := <-app.Wait():
		code = sig.ExitCode
	}

	if err := app.Stop(context.Background()); err != nil {
		fmt.Fprintf(stderr, "failed to stop application: %v\n", err)
		return 1
	}
	return code
}
