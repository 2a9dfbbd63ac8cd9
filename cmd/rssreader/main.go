package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	logging "github.com/KonishchevDmitry/go-easy-logging"
	"github.com/alecthomas/kong"

	"github.com/KonishchevDmitry/rssreader/internal/config"
	"github.com/KonishchevDmitry/rssreader/internal/logger"
)

type cli struct {
	Config string `help:"Configuration file path." type:"path" placeholder:"PATH"`
	Debug  bool   `help:"Enable debug logging."`

	Read  readCommand  `cmd:"" help:"Fetch feeds and print their items as they arrive. Feed URLs are read from the arguments and then from stdin."`
	Serve serveCommand `cmd:"" help:"Serve the reader over HTTP."`
}

type application struct {
	config *config.Config
}

func main() {
	var args cli
	kongCtx := kong.Parse(&args,
		kong.Name("rssreader"),
		kong.Description("Incremental RSS reader."),
		kong.UsageOnError(),
	)

	appConfig, err := config.Load(args.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s.\n", err)
		os.Exit(1)
	}

	appLogger, err := logger.New(logger.Config{
		Level: appConfig.Log.Level,
		File:  appConfig.Log.File,
		Debug: args.Debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s.\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(logging.WithLogger(context.Background(), appLogger.SugaredLogger),
		os.Interrupt, syscall.SIGTERM)

	kongCtx.BindTo(ctx, (*context.Context)(nil))
	err = kongCtx.Run(&application{config: appConfig})
	cancel()

	if err != nil {
		logging.L(ctx).Errorf("%s.", err)
	}
	if closeErr := appLogger.Close(); closeErr != nil {
		fmt.Fprintf(os.Stderr, "Failed to close the log: %s.\n", closeErr)
	}

	if err != nil {
		os.Exit(1)
	}
}
