package datatable

import (
	"context"
	"time"
)

// FilterEventType identifies a stage of a filter run.
type FilterEventType string

const (
	FilterStart   FilterEventType = "filter:start"
	FilterSuccess FilterEventType = "filter:success"
	FilterFailed  FilterEventType = "filter:failed"
)

// FilterEvent is emitted on the table's event bus around every filter run.
type FilterEvent struct {
	Type      FilterEventType `json:"type"`
	Timestamp int64           `json:"timestamp"` // Unix milliseconds.
	TableID   string          `json:"tableId"`
	Filter    string          `json:"filter"`
	RowCount  int             `json:"rowCount"`
	Error     *string         `json:"error,omitempty"`
	Duration  *int64          `json:"duration,omitempty"` // Milliseconds, set on success and failure.
}

// EventCallback receives filter events.
type EventCallback func(ctx context.Context, event FilterEvent) error

type subscription struct {
	event       FilterEventType
	unsubscribe func()
}

func newFilterEvent(eventType FilterEventType, tableID, filter string, rows int, err error, start time.Time) FilterEvent {
	event := FilterEvent{
		Type:      eventType,
		Timestamp: time.Now().UnixMilli(),
		TableID:   tableID,
		Filter:    filter,
		RowCount:  rows,
	}
	if eventType != FilterStart {
		d := time.Since(start).Milliseconds()
		event.Duration = &d
	}
	if err != nil {
		msg := err.Error()
		event.Error = &msg
	}
	return event
}
