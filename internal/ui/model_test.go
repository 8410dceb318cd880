package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rbright/divamm/internal/dispatch"
	"github.com/rbright/divamm/internal/oneclick"
)

var testTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func acceptedDelivery(itemID int64) dispatch.Delivery {
	return dispatch.Delivery{
		ID:         uuid.New(),
		ReceivedAt: testTime,
		Source:     dispatch.SourceHandoff,
		Raw:        "divamodmanager:https://gamebanana.com/mmdl/555,Mod,1",
		Request: oneclick.Request{
			ArchiveURL: "https://gamebanana.com/mmdl/555",
			FileID:     555,
			ItemType:   "Mod",
			ItemID:     itemID,
		},
	}
}

func rejectedDelivery() dispatch.Delivery {
	return dispatch.Delivery{
		ID:         uuid.New(),
		ReceivedAt: testTime,
		Source:     dispatch.SourceLocal,
		Raw:        "divamodmanager:nonsense",
		Err:        errors.New("malformed one-click URL"),
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func key(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

func TestRowFromDeliveryAccepted(t *testing.T) {
	d := acceptedDelivery(12345)
	row := RowFromDelivery(d)

	require.Equal(t, d.ID.String(), row.ID)
	require.True(t, row.Accepted)
	require.Equal(t, "Mod 12345", row.Title)
	require.Equal(t, "https://gamebanana.com/mmdl/555", row.Detail)
	require.Equal(t, "09:26:53 queued   handoff Mod 12345  https://gamebanana.com/mmdl/555", row.Line())
}

func TestRowFromDeliveryRejected(t *testing.T) {
	row := RowFromDelivery(rejectedDelivery())

	require.False(t, row.Accepted)
	require.Equal(t, "rejected", row.Title)
	require.Equal(t, "malformed one-click URL: divamodmanager:nonsense", row.Detail)
	require.True(t, strings.HasPrefix(row.Line(), "09:26:53 rejected local"))
}

func TestModelAppendsDeliveriesInOrder(t *testing.T) {
	m := NewModel("divamm", "@rust4diva.sock")
	require.Equal(t, -1, m.Selection())

	m, _ = update(t, m, DeliveryMsg{Delivery: acceptedDelivery(1)})
	m, _ = update(t, m, DeliveryMsg{Delivery: acceptedDelivery(2)})

	rows := m.Rows()
	require.Len(t, rows, 2)
	require.Equal(t, "Mod 1", rows[0].Title)
	require.Equal(t, "Mod 2", rows[1].Title)
	require.Equal(t, 1, m.Selection(), "selection follows the newest row")
}

func TestModelSelectionStaysWhenScrolledAway(t *testing.T) {
	m := NewModel("divamm", "@rust4diva.sock")
	m, _ = update(t, m, DeliveryMsg{Delivery: acceptedDelivery(1)})
	m, _ = update(t, m, DeliveryMsg{Delivery: acceptedDelivery(2)})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	require.Equal(t, 0, m.Selection())

	m, _ = update(t, m, DeliveryMsg{Delivery: acceptedDelivery(3)})
	require.Equal(t, 0, m.Selection())
}

func TestModelSelectionBounds(t *testing.T) {
	m := NewModel("divamm", "@rust4diva.sock")
	m, _ = update(t, m, key("j"))
	require.Equal(t, -1, m.Selection())

	m, _ = update(t, m, DeliveryMsg{Delivery: acceptedDelivery(1)})
	m, _ = update(t, m, DeliveryMsg{Delivery: acceptedDelivery(2)})
	m, _ = update(t, m, key("k"))
	m, _ = update(t, m, key("k"))
	require.Equal(t, 0, m.Selection())
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 1, m.Selection())
}

func TestModelClearRejected(t *testing.T) {
	m := NewModel("divamm", "@rust4diva.sock")
	m, _ = update(t, m, DeliveryMsg{Delivery: acceptedDelivery(1)})
	m, _ = update(t, m, DeliveryMsg{Delivery: rejectedDelivery()})
	require.Equal(t, 1, m.Selection())

	m, _ = update(t, m, key("c"))
	rows := m.Rows()
	require.Len(t, rows, 1)
	require.True(t, rows[0].Accepted)
	require.Equal(t, 0, m.Selection())
}

func TestModelQuitKeys(t *testing.T) {
	for _, msg := range []tea.KeyMsg{key("q"), {Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		_, cmd := update(t, NewModel("divamm", "x"), msg)
		require.NotNil(t, cmd)
		require.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestModelView(t *testing.T) {
	m := NewModel("divamm", "@rust4diva.sock")
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 20})
	require.Contains(t, m.View(), "Waiting for one-click downloads")

	m, _ = update(t, m, DeliveryMsg{Delivery: acceptedDelivery(7)})
	m, _ = update(t, m, DeliveryMsg{Delivery: rejectedDelivery()})
	view := m.View()
	require.Contains(t, view, "listening on @rust4diva.sock  queued 1  rejected 1")
	require.Contains(t, view, "Mod 7")
	require.Contains(t, view, "rejected")
}

func TestLineSinkWritesOneLinePerDelivery(t *testing.T) {
	var out bytes.Buffer
	sink := NewLineSink(&out)

	sink.Deliver(context.Background(), acceptedDelivery(1))
	sink.Deliver(context.Background(), rejectedDelivery())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "queued")
	require.Contains(t, lines[1], "rejected")
}

func TestProgramSinkDeliversIntoRunningProgram(t *testing.T) {
	program := tea.NewProgram(
		NewModel("divamm", "test"),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)

	done := make(chan tea.Model, 1)
	go func() {
		final, err := program.Run()
		require.NoError(t, err)
		done <- final
	}()

	NewProgramSink(program).Deliver(context.Background(), acceptedDelivery(42))
	program.Quit()

	select {
	case final := <-done:
		m, ok := final.(Model)
		require.True(t, ok)
		require.Len(t, m.Rows(), 1)
		require.Equal(t, "Mod 42", m.Rows()[0].Title)
	case <-time.After(5 * time.Second):
		t.Fatal("program did not exit")
	}
}

func TestFitWidthCountsColumnsNotBytes(t *testing.T) {
	require.Equal(t, "short", fitWidth("short", 10))

	got := fitWidth("ダウンロード失敗", 5)
	require.True(t, utf8.ValidString(got))
	require.LessOrEqual(t, lipgloss.Width(got), 5)
	require.Equal(t, "ダウ", got)

	// Fits in columns even though the byte length is larger.
	require.Equal(t, "ééééé", fitWidth("ééééé", 5))
}

func TestModelViewTruncatesMultiByteDetail(t *testing.T) {
	d := rejectedDelivery()
	d.Raw = "divamodmanager:" + strings.Repeat("模組", 40)

	m := NewModel("divamm", "@rust4diva.sock")
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 20})
	m, _ = update(t, m, DeliveryMsg{Delivery: d})

	list := m.viewList()
	require.True(t, utf8.ValidString(list))
	require.LessOrEqual(t, lipgloss.Width(list), 40)
}
