// Package app wires configuration, the single-instance endpoint, and the
// delivery pipeline behind the divamm command tree.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rbright/divamm/internal/cli"
	"github.com/rbright/divamm/internal/config"
	"github.com/rbright/divamm/internal/doctor"
	"github.com/rbright/divamm/internal/fsm"
	"github.com/rbright/divamm/internal/ipc"
	"github.com/rbright/divamm/internal/logging"
	"github.com/rbright/divamm/internal/oneclick"
)

const binaryName = "divamm"

// Runner carries process IO and an optional logger override.
type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// Execute runs one process invocation and returns its exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdin: os.Stdin, Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

// Execute maps command errors to exit codes: 2 for usage, 1 for failures.
func (r Runner) Execute(ctx context.Context, args []string) int {
	root := cli.NewRoot(binaryName, cli.Handlers{
		Launch: r.launch,
		Status: r.status,
		Doctor: r.doctor,
	})
	root.SetOut(r.Stdout)
	root.SetErr(r.Stderr)
	root.SetArgs(args)

	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return 0
	}

	var usageErr *cli.UsageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cmd.UsageString())
		return 2
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	fmt.Fprintf(r.Stderr, "error: %v\n", err)
	return 1
}

// runtimeEnv is the per-invocation application context.
type runtimeEnv struct {
	loaded config.Loaded
	logger *slog.Logger
	close  func()
}

func (r Runner) setup(opts cli.Options) (runtimeEnv, error) {
	loaded, err := config.Load(opts.ConfigPath)
	if err != nil {
		return runtimeEnv{}, err
	}

	env := runtimeEnv{loaded: loaded, logger: r.Logger, close: func() {}}
	if env.logger == nil {
		logRuntime, err := logging.New(loaded.Config.Log.Level)
		if err != nil {
			return runtimeEnv{}, fmt.Errorf("setup logging: %w", err)
		}
		env.logger = logRuntime.Logger
		env.close = func() { _ = logRuntime.Close() }
	}

	for _, w := range loaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
		env.logger.Warn("config warning", "key", w.Key, "line", w.Line, "message", w.Message)
	}
	return env, nil
}

func resolveEndpoint(cfg config.IPCConfig) (ipc.Endpoint, error) {
	return ipc.ResolveConfigured(cfg.LogicalName, cfg.Namespaced, cfg.SocketDir)
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// launch is the bare invocation: become the running instance or hand off to it.
func (r Runner) launch(ctx context.Context, opts cli.Options, args []string) error {
	env, err := r.setup(opts)
	if err != nil {
		return err
	}
	defer env.close()

	cfg := env.loaded.Config
	logger := env.logger

	payload, hasPayload := oneclick.FindArg(args, cfg.OneClick.Scheme)
	for _, arg := range args {
		if !oneclick.HasPrefix(strings.TrimSpace(arg), cfg.OneClick.Scheme) {
			logger.Debug("ignoring argument without one-click scheme", "arg", arg)
		}
	}

	logger.Info("command start",
		"command", "launch",
		"config", env.loaded.Path,
		"has_payload", hasPayload,
	)

	life := newLifecycle(logger)

	if err := os.MkdirAll(cfg.Paths.WorkDir, 0o755); err != nil {
		return life.finish(fmt.Errorf("create work dir: %w", err))
	}

	ep, err := resolveEndpoint(cfg.IPC)
	if err != nil {
		logger.Error("resolve endpoint failed", "error", err.Error())
		return life.finish(err)
	}
	life.advance(fsm.EventResolved)

	listener, err := ipc.Listen(ctx, ep, millis(cfg.IPC.ProbeTimeoutMS))
	if errors.Is(err, ipc.ErrAddressInUse) {
		life.advance(fsm.EventInUse)
		logger.Info("instance already running", "endpoint", ep.String())
		return life.finish(r.handoff(ctx, logger, cfg.IPC, ep, payload, hasPayload))
	}
	if err != nil {
		logger.Error("bind endpoint failed", "endpoint", ep.String(), "error", err.Error())
		return life.finish(err)
	}

	life.advance(fsm.EventBound)
	logger.Info("instance started", "endpoint", ep.String())
	return life.finish(r.serve(ctx, env, ep, listener, payload, hasPayload, opts.Headless || cfg.UI.Headless))
}

// handoff forwards the payload to the running instance. Delivery failures are
// reported but never change the exit code.
func (r Runner) handoff(ctx context.Context, logger *slog.Logger, cfg config.IPCConfig, ep ipc.Endpoint, payload string, hasPayload bool) error {
	if !hasPayload {
		logger.Info("secondary launch without payload; exiting")
		return nil
	}

	ack, err := ipc.Notify(ctx, ep, payload+"\n", millis(cfg.NotifyTimeoutMS))
	if err != nil {
		fmt.Fprintf(r.Stderr, "warning: hand off to running instance: %v\n", err)
		logger.Warn("handoff failed", "endpoint", ep.String(), "error", err.Error())
		return nil
	}
	logger.Info("handoff acknowledged", "endpoint", ep.String(), "ack", ack)
	return nil
}

// status probes the endpoint without binding it.
func (r Runner) status(ctx context.Context, opts cli.Options) error {
	env, err := r.setup(opts)
	if err != nil {
		return err
	}
	defer env.close()

	cfg := env.loaded.Config
	ep, err := resolveEndpoint(cfg.IPC)
	if err != nil {
		fmt.Fprintln(r.Stdout, "idle")
		return nil
	}

	alive, err := ipc.Probe(ctx, ep, millis(cfg.IPC.ProbeTimeoutMS))
	if err != nil {
		return err
	}
	if alive {
		fmt.Fprintln(r.Stdout, "running")
		return nil
	}
	fmt.Fprintln(r.Stdout, "idle")
	return nil
}

func (r Runner) doctor(ctx context.Context, opts cli.Options) error {
	env, err := r.setup(opts)
	if err != nil {
		return err
	}
	defer env.close()

	report := doctor.Run(ctx, env.loaded)
	fmt.Fprintln(r.Stdout, report.String())
	if !report.OK() {
		return &cli.ExitError{Code: 1}
	}
	return nil
}
