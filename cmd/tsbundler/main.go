package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/afero"
	"github.com/vk/tsbundler/internal/app"
	"github.com/vk/tsbundler/internal/cli"
	"github.com/vk/tsbundler/internal/hcl_adapter"
)

// main is the entrypoint for the tsbundler application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical config errors.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	fs := afero.NewOsFs()
	tsApp := app.NewApp(outW, appConfig, hcl_adapter.NewLoader(fs), fs)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return tsApp.Run(ctx, appConfig)
}
