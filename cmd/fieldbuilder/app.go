package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-fieldbuilder/internal/config"
	"github.com/goliatone/go-fieldbuilder/internal/logging"
	"github.com/goliatone/go-fieldbuilder/pkg/contract"
	"github.com/goliatone/go-fieldbuilder/pkg/editor"
	"github.com/goliatone/go-fieldbuilder/pkg/idgen"
	"github.com/goliatone/go-fieldbuilder/pkg/model"
	"github.com/goliatone/go-fieldbuilder/pkg/preview"
	"github.com/goliatone/go-fieldbuilder/pkg/sanitize"
	"github.com/goliatone/go-fieldbuilder/pkg/server"
	"github.com/goliatone/go-fieldbuilder/pkg/submit"
	"github.com/goliatone/go-fieldbuilder/pkg/tui"
)

type app struct {
	cfg    *config.Config
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newApp(g globalFlags, stdin io.Reader, stdout, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(config.LoadOptions{File: g.config, EnvFile: g.env})
	if err != nil {
		return nil, err
	}
	if g.dryRun {
		cfg.DryRun = true
	}

	logger := logging.New(logging.Options{
		Format: cfg.Log.Format,
		Level:  cfg.Log.Level,
		Output: stderr,
	})

	return &app{cfg: cfg, logger: logger, stdin: stdin, stdout: stdout, stderr: stderr}, nil
}

// buildEditor wires the editor from configuration: id strategy, submission
// client, optional contract enforcement and input sanitizing.
func (a *app) buildEditor(ctx context.Context) (*editor.Editor, error) {
	ids, err := idgen.FromName(a.cfg.IDStrategy)
	if err != nil {
		return nil, err
	}

	var spec *contract.Contract
	if a.cfg.Contract.Enforce || (a.cfg.Endpoint.URL == "" && !a.cfg.DryRun) {
		spec, err = a.loadContract(ctx)
		if err != nil {
			return nil, err
		}
	}

	client, err := a.buildClient(spec)
	if err != nil {
		return nil, err
	}

	opts := []editor.Option{
		editor.WithMaxChoices(a.cfg.MaxChoices),
		editor.WithIDGenerator(ids),
		editor.WithClient(client),
		editor.WithClearOnSubmit(a.cfg.ClearOnSubmit),
		editor.WithLogger(logging.Component(a.logger, "editor")),
	}
	if a.cfg.Contract.Enforce && spec != nil {
		opts = append(opts, editor.WithValidator(spec))
	}
	if a.cfg.SanitizeInput {
		opts = append(opts, editor.WithSanitizer(sanitize.Text))
	}
	return editor.New(opts...), nil
}

func (a *app) loadContract(ctx context.Context) (*contract.Contract, error) {
	src, err := contract.ParseSource(a.cfg.Contract.Path)
	if err != nil {
		return nil, err
	}
	spec, err := contract.Load(ctx, src, contract.Options{
		OperationID: a.cfg.Contract.Operation,
		Loader:      []contract.LoaderOption{contract.WithHTTPFallback(a.cfg.Endpoint.Timeout)},
	})
	if err != nil {
		return nil, err
	}
	a.logger.Debug("contract loaded",
		"operation", spec.OperationID(),
		"method", spec.Method(),
		"path", spec.Path(),
	)
	return spec, nil
}

func (a *app) buildClient(spec *contract.Contract) (submit.Client, error) {
	if a.cfg.DryRun {
		return submit.NewWriterClient(a.stdout), nil
	}

	endpoint := a.cfg.Endpoint.URL
	if endpoint == "" && spec != nil {
		endpoint = spec.Endpoint()
	}

	opts := []submit.HTTPOption{
		submit.WithEndpoint(endpoint),
		submit.WithTimeout(a.cfg.Endpoint.Timeout),
		submit.WithToken(a.cfg.Endpoint.Token),
	}
	for name, value := range a.cfg.Endpoint.Headers {
		opts = append(opts, submit.WithHeader(name, value))
	}
	client, err := submit.NewHTTPClient(opts...)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("submitting to endpoint", "url", client.Endpoint())
	return client, nil
}

func (a *app) buildPreview() (*preview.Renderer, error) {
	return preview.New(preview.WithTheme(a.cfg.Preview.Theme, a.cfg.Preview.Variant))
}

func (a *app) edit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	keepOpen := fs.Bool("keep-open", false, "keep editing after a successful submit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ed, err := a.buildEditor(ctx)
	if err != nil {
		return err
	}
	session, err := tui.NewSession(ed,
		tui.WithPromptDriver(tui.NewSurveyDriver(a.stdout)),
		tui.WithKeepOpen(*keepOpen),
		tui.WithTheme(tui.Theme{ErrorPrefix: "! "}),
		tui.WithLogger(logging.Component(a.logger, "tui")),
	)
	if err != nil {
		return err
	}

	err = session.Run(ctx)
	if errors.Is(err, tui.ErrAborted) {
		fmt.Fprintln(a.stderr, "aborted")
		return nil
	}
	return err
}

func (a *app) serve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	addr := fs.String("addr", a.cfg.Server.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ed, err := a.buildEditor(ctx)
	if err != nil {
		return err
	}
	renderer, err := a.buildPreview()
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	pattern, err := server.RegisterRoutes(mux, a.cfg.Server.BasePath,
		server.WithEditor(ed),
		server.WithPreview(renderer),
		server.WithLogger(logging.Component(a.logger, "http")),
	)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "addr", *addr, "path", pattern)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (a *app) preview(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	input := fs.String("input", "-", "definition JSON file (- for stdin)")
	output := fs.String("output", "", "output file (stdout if empty)")
	name := fs.String("name", "", "select element name")
	themeName := fs.String("theme", "", "theme override")
	variant := fs.String("variant", "", "theme variant override")
	if err := fs.Parse(args); err != nil {
		return err
	}

	raw, err := a.readInput(*input)
	if err != nil {
		return err
	}
	def, err := model.DecodeDefinition(raw)
	if err != nil {
		return err
	}

	renderer, err := a.buildPreview()
	if err != nil {
		return err
	}
	html, err := renderer.Render(ctx, def, preview.RenderOptions{
		Name:    *name,
		Theme:   *themeName,
		Variant: *variant,
	})
	if err != nil {
		return err
	}

	if *output != "" {
		if err := os.WriteFile(*output, html, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(a.stdout, "Preview written to %s\n", *output)
		return nil
	}
	_, err = a.stdout.Write(html)
	return err
}

func (a *app) readInput(path string) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == "-" {
		return io.ReadAll(a.stdin)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return raw, nil
}
