package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Makepad-fr/tarefas/internal/cli"
	"github.com/Makepad-fr/tarefas/internal/config"
	"github.com/Makepad-fr/tarefas/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	fs := flag.NewFlagSet("tarefas", flag.ContinueOnError)
	fs.Usage = cli.PrintHelp
	cfg, args, err := config.Load(fs, os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		ui.Fail("config: " + err.Error())
		os.Exit(2)
	}

	ui.SetColorForcing(os.Getenv("FORCE_COLOR") != "", os.Getenv("NO_COLOR") != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(args, cli.Options{Context: ctx, Config: cfg})
	stop()
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
