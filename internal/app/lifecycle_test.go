package app

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rbright/divamm/internal/fsm"
)

func TestLifecycleRecordsPrimaryRole(t *testing.T) {
	var logs bytes.Buffer
	life := newLifecycle(slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))

	life.advance(fsm.EventResolved)
	life.advance(fsm.EventBound)
	require.NoError(t, life.finish(nil))

	require.Equal(t, fsm.StateStopped, life.state)
	require.Contains(t, logs.String(), `"role":"primary"`)
}

func TestLifecycleFinishWithErrorFails(t *testing.T) {
	life := newLifecycle(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	boom := errors.New("boom")

	require.ErrorIs(t, life.finish(boom), boom)
	require.Equal(t, fsm.StateFailed, life.state)
}

func TestLifecycleRejectsOutOfOrderEvents(t *testing.T) {
	var logs bytes.Buffer
	life := newLifecycle(slog.New(slog.NewJSONHandler(&logs, nil)))

	life.advance(fsm.EventBound)
	require.Equal(t, fsm.StateStarting, life.state)
	require.Contains(t, logs.String(), "lifecycle transition rejected")
}
