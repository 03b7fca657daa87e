package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"ocrprep/enhance"
	"ocrprep/parallel"
	"ocrprep/server"

	"github.com/alecthomas/kong"
)

var cli struct {
	Debug   bool `help:"Enable debug logging"`
	Workers int  `help:"Number of parallel workers, 0 for one per CPU" default:"0"`

	Enhance enhance.CLICmd `cmd:"" help:"Enhance every picture of a folder for text recognition"`
	Serve   server.CLICmd  `cmd:"" help:"Serve the enhancement API over HTTP"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kctx := kong.Parse(&cli,
		kong.Name("ocrprep"),
		kong.Description("Prepare scanned pictures for text recognition"),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.BindToProvider(func() (*parallel.Pool, error) {
			return parallel.Start(cli.Workers), nil
		}),
	)

	if cli.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	if err := kctx.Run(); err != nil {
		slog.Error("command failed", "command", kctx.Command(), "error", err)
		os.Exit(1)
	}
}
