// Package dispatch turns forwarded one-click payloads into application deliveries.
package dispatch

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rbright/divamm/internal/oneclick"
)

// Source records how a payload reached the running instance.
type Source string

const (
	// SourceHandoff is a payload received from a secondary launch.
	SourceHandoff Source = "handoff"
	// SourceLocal is the running instance's own command-line argument.
	SourceLocal Source = "local"
)

// Delivery is one one-click payload as seen by application logic.
// Err is set when the payload could not be parsed; Request is then zero.
type Delivery struct {
	ID         uuid.UUID
	ReceivedAt time.Time
	Source     Source
	Raw        string
	Request    oneclick.Request
	Err        error
}

// Accepted reports whether the payload parsed into a download request.
func (d Delivery) Accepted() bool {
	return d.Err == nil
}

// Sink receives every delivery, accepted or rejected.
type Sink interface {
	Deliver(context.Context, Delivery)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(context.Context, Delivery)

func (f SinkFunc) Deliver(ctx context.Context, d Delivery) {
	f(ctx, d)
}

// Indicator surfaces accepted deliveries to the user outside the main view.
type Indicator interface {
	ShowDelivery(context.Context, Delivery)
}

type noopIndicator struct{}

func (noopIndicator) ShowDelivery(context.Context, Delivery) {}

// Dispatcher is the sole consumer of the forwarding channel.
type Dispatcher struct {
	logger    *slog.Logger
	scheme    string
	sink      Sink
	indicator Indicator
	now       func() time.Time

	accepted atomic.Int64
	rejected atomic.Int64
}

// New constructs a dispatcher with safe default fallbacks.
func New(logger *slog.Logger, scheme string, sink Sink, indicator Indicator) *Dispatcher {
	if sink == nil {
		sink = SinkFunc(func(context.Context, Delivery) {})
	}
	if indicator == nil {
		indicator = noopIndicator{}
	}
	return &Dispatcher{
		logger:    logger,
		scheme:    scheme,
		sink:      sink,
		indicator: indicator,
		now:       time.Now,
	}
}

// Run consumes in until ctx is cancelled or in is closed.
func (d *Dispatcher) Run(ctx context.Context, in <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-in:
			if !ok {
				return
			}
			d.Submit(ctx, raw, SourceHandoff)
		}
	}
}

// Submit parses raw and hands the result to the sink.
func (d *Dispatcher) Submit(ctx context.Context, raw string, source Source) Delivery {
	delivery := Delivery{
		ID:         uuid.New(),
		ReceivedAt: d.now(),
		Source:     source,
		Raw:        raw,
	}

	req, err := oneclick.Parse(raw, d.scheme)
	if err != nil {
		delivery.Err = err
		d.rejected.Add(1)
		d.log(slog.LevelWarn, "one-click payload rejected", delivery, "error", err.Error())
	} else {
		delivery.Request = req
		d.accepted.Add(1)
		d.log(slog.LevelInfo, "one-click payload accepted", delivery,
			"file_id", req.FileID,
			"item_type", req.ItemType,
			"item_id", req.ItemID,
		)
		d.indicator.ShowDelivery(ctx, delivery)
	}

	d.sink.Deliver(ctx, delivery)
	return delivery
}

// Counts returns accepted and rejected totals.
func (d *Dispatcher) Counts() (accepted, rejected int64) {
	return d.accepted.Load(), d.rejected.Load()
}

func (d *Dispatcher) log(level slog.Level, msg string, delivery Delivery, fields ...any) {
	if d.logger == nil {
		return
	}
	base := []any{
		"delivery_id", delivery.ID.String(),
		"source", string(delivery.Source),
	}
	d.logger.Log(context.Background(), level, msg, append(base, fields...)...)
}
