// Package indicator announces accepted one-click deliveries with a desktop
// notification and a short audio cue.
package indicator

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rbright/divamm/internal/config"
	"github.com/rbright/divamm/internal/dispatch"
)

// Notifier is the concrete dispatch.Indicator used by the running instance.
type Notifier struct {
	cfg      config.IndicatorConfig
	logger   *slog.Logger
	messages messages

	mu             sync.Mutex
	notificationID uint32
	soundMu        sync.Mutex
	wg             sync.WaitGroup
}

var _ dispatch.Indicator = (*Notifier)(nil)

// New creates a notifier from config.
func New(cfg config.IndicatorConfig, logger *slog.Logger) *Notifier {
	return &Notifier{
		cfg:      cfg,
		logger:   logger,
		messages: indicatorMessagesFromEnv(),
	}
}

// ShowDelivery plays the receive cue and replaces the previous notification.
// Repeated deliveries reuse one notification slot.
func (n *Notifier) ShowDelivery(ctx context.Context, d dispatch.Delivery) {
	n.playCue(cueReceived)
	if !n.cfg.Enable {
		return
	}
	n.run(ctx, func(ctx context.Context) error {
		return n.notifyDesktop(ctx, n.messages.summary, n.messages.body(d.Request))
	})
}

// Wait blocks until queued audio cues finish.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) notifyDesktop(ctx context.Context, summary, body string) error {
	n.mu.Lock()
	replaceID := n.notificationID
	n.mu.Unlock()

	appName := strings.TrimSpace(n.cfg.DesktopAppName)
	if appName == "" {
		appName = "divamm"
	}

	id, err := desktopNotify(ctx, appName, replaceID, summary, body, n.cfg.TimeoutMS)
	if err != nil {
		return err
	}

	n.mu.Lock()
	n.notificationID = id
	n.mu.Unlock()
	return nil
}

// run executes an indicator operation with a bounded timeout.
func (n *Notifier) run(ctx context.Context, fn func(context.Context) error) {
	runCtx, cancel := context.WithTimeout(ctx, 400*time.Millisecond)
	defer cancel()
	if err := fn(runCtx); err != nil {
		n.log("indicator dispatch failed", err)
	}
}

// playCue serializes cue playback and emits audio asynchronously.
func (n *Notifier) playCue(kind cueKind) {
	if !n.cfg.SoundEnable {
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.soundMu.Lock()
		defer n.soundMu.Unlock()
		if err := emitCue(kind); err != nil {
			n.log("indicator audio cue failed", err)
		}
	}()
}

// log emits debug-only indicator failures to the runtime logger.
func (n *Notifier) log(message string, err error) {
	if n.logger == nil || err == nil {
		return
	}
	n.logger.Debug(message, "error", err.Error())
}
