package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"qbank/app"
	"qbank/config"
)

const usage = `qbank - question bank operator tools

Usage:
  qbank <command> [flags]

Commands:
  generate   Generate or add one question and print it
  batch      Create a batch plan from lines or an XLSX sheet
  show       Print one question
  list       List questions, optionally filtered
  plan       Print a stored batch plan
  export     Write a moderation bucket to an XLSX workbook
  stats      Print the current bucket counts
  watch      Poll bucket counts and print the activity log
  audit      Tail the audit topic

Run "qbank <command> -h" for the flags of a command.
`

type command func(ctx context.Context, a *app.App, args []string) error

var commands = map[string]command{
	"generate": runGenerate,
	"batch":    runBatch,
	"show":     runShow,
	"list":     runList,
	"plan":     runPlan,
	"export":   runExport,
	"stats":    runStats,
	"watch":    runWatch,
	"audit":    runAudit,
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(ctx, cfg)
	err := cmd(ctx, a, os.Args[2:])
	a.Close()
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
