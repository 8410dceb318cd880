package ui

import (
	"fmt"
	"time"

	"github.com/rbright/divamm/internal/dispatch"
)

// Row is one rendered line of the download inbox.
type Row struct {
	ID         string
	ReceivedAt time.Time
	Source     dispatch.Source
	Accepted   bool
	Title      string
	Detail     string
}

// RowFromDelivery maps a delivery to its inbox row.
func RowFromDelivery(d dispatch.Delivery) Row {
	row := Row{
		ID:         d.ID.String(),
		ReceivedAt: d.ReceivedAt,
		Source:     d.Source,
		Accepted:   d.Accepted(),
	}
	if row.Accepted {
		row.Title = fmt.Sprintf("%s %d", d.Request.ItemType, d.Request.ItemID)
		row.Detail = d.Request.ArchiveURL
		return row
	}
	row.Title = "rejected"
	row.Detail = d.Err.Error()
	if d.Raw != "" {
		row.Detail = fmt.Sprintf("%s: %s", d.Err, d.Raw)
	}
	return row
}

// Line renders the row as a plain text line for headless output.
func (r Row) Line() string {
	status := "queued"
	if !r.Accepted {
		status = "rejected"
	}
	return fmt.Sprintf("%s %-8s %-7s %s  %s",
		r.ReceivedAt.Format("15:04:05"), status, r.Source, r.Title, r.Detail)
}
