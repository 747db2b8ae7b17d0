package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/fckoffmw/replay-service/internal/cli"
	"github.com/fckoffmw/replay-service/internal/config"
	"github.com/fckoffmw/replay-service/pkg/log"
	"github.com/fckoffmw/replay-service/pkg/sig"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-sig.TermSignals()
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := log.New(cfg.LogLevel)
	defer handleAppPanic(ctx, logger)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}

	root := cli.NewRootCommand(app)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, cli.PresentError(err))
		os.Exit(1)
	}
}

func handleAppPanic(ctx context.Context, logger log.Logger) {
	msg := recover()
	if msg == nil {
		return
	}

	logger.With(log.Fields{
		"panic": fmt.Sprintf("%v", msg),
		"stack": string(debug.Stack()),
	}).Error(ctx, "app failed with panic")
	os.Exit(1)
}
