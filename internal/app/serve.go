package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rbright/divamm/internal/dispatch"
	"github.com/rbright/divamm/internal/indicator"
	"github.com/rbright/divamm/internal/ipc"
	"github.com/rbright/divamm/internal/ui"
)

// serve runs the primary instance until ctx ends or the user quits the inbox.
func (r Runner) serve(ctx context.Context, env runtimeEnv, ep ipc.Endpoint, listener net.Listener, payload string, hasPayload, headless bool) error {
	cfg := env.loaded.Config
	logger := env.logger

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	forward := make(chan string, cfg.IPC.ForwardBuffer)
	server := ipc.NewServer(listener, forward, ipc.ServerOptions{
		Logger:      logger,
		ReadTimeout: millis(cfg.IPC.ReadTimeoutMS),
	})

	var serveErr error
	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		if err := server.Serve(runCtx); err != nil {
			serveErr = err
			logger.Error("ipc server failed", "error", err.Error())
			cancel()
		}
	}()

	var program *tea.Program
	var sink dispatch.Sink
	if headless {
		sink = ui.NewLineSink(r.Stdout)
	} else {
		program = tea.NewProgram(
			ui.NewModel(binaryName, ep.String()),
			tea.WithContext(runCtx),
			tea.WithInput(r.Stdin),
			tea.WithOutput(r.Stdout),
			tea.WithAltScreen(),
			tea.WithoutSignalHandler(),
		)
		sink = ui.NewProgramSink(program)
	}

	notifier := indicator.New(cfg.Indicator, logger)
	dispatcher := dispatch.New(logger, cfg.OneClick.Scheme, sink, notifier)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		dispatcher.Run(runCtx, forward)
	}()
	if hasPayload {
		// ProgramSink blocks until the program starts, so never submit inline.
		wg.Add(1)
		go func() {
			defer wg.Done()
			dispatcher.Submit(runCtx, payload, dispatch.SourceLocal)
		}()
	}

	var frontendErr error
	if program == nil {
		<-runCtx.Done()
	} else if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		frontendErr = fmt.Errorf("inbox view: %w", err)
	}

	cancel()
	<-serverDone
	wg.Wait()
	notifier.Wait()

	accepted, rejected := dispatcher.Counts()
	logger.Info("instance stopped",
		"endpoint", ep.String(),
		"accepted", accepted,
		"rejected", rejected,
	)

	if serveErr != nil {
		return fmt.Errorf("ipc server: %w", serveErr)
	}
	return frontendErr
}
