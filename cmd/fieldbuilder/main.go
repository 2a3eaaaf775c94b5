package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

const usage = `usage: fieldbuilder [flags] <command> [command flags]

commands:
  edit      build a field definition interactively and submit it
  serve     expose the field editor over HTTP
  preview   render a saved definition JSON as HTML

flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "fieldbuilder: %v\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	config string
	env    string
	dryRun bool
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("fieldbuilder", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	var g globalFlags
	fs.StringVar(&g.config, "config", "", "YAML config file")
	fs.StringVar(&g.env, "env", ".env", "dotenv file (ignored when missing)")
	fs.BoolVar(&g.dryRun, "dry-run", false, "print submitted documents instead of sending them")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return flag.ErrHelp
	}

	app, err := newApp(g, stdin, stdout, stderr)
	if err != nil {
		return err
	}

	switch rest[0] {
	case "edit":
		return app.edit(ctx, rest[1:])
	case "serve":
		return app.serve(ctx, rest[1:])
	case "preview":
		return app.preview(ctx, rest[1:])
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", rest[0])
	}
}
