package datatable

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/asaidimu/go-events"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Table is an ordered collection of rows. Filters mutate rows in place and
// never reorder them. A Table is not safe for concurrent mutation.
type Table struct {
	id       string
	rows     []*Row
	registry *Registry
	logger   *zap.Logger

	bus           *events.TypedEventBus[FilterEvent]
	subscriptions map[string]*subscription
	subMu         sync.Mutex
}

// TableOption configures a Table.
type TableOption func(*Table)

// WithRegistry sets the registry used to resolve filter names.
func WithRegistry(registry *Registry) TableOption {
	return func(t *Table) {
		t.registry = registry
	}
}

// WithLogger sets the table logger.
func WithLogger(logger *zap.Logger) TableOption {
	return func(t *Table) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithID overrides the generated table identifier.
func WithID(id string) TableOption {
	return func(t *Table) {
		t.id = id
	}
}

// NewTable creates an empty table.
func NewTable(opts ...TableOption) *Table {
	t := &Table{
		id:            uuid.New().String(),
		logger:        zap.NewNop(),
		subscriptions: make(map[string]*subscription),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.registry == nil {
		t.registry = DefaultRegistry()
	}
	return t
}

// ID returns the table identifier carried by its events.
func (t *Table) ID() string {
	return t.id
}

// AddRow appends a row.
func (t *Table) AddRow(row *Row) {
	t.rows = append(t.rows, row)
}

// AddRows appends rows in order.
func (t *Table) AddRows(rows ...*Row) {
	t.rows = append(t.rows, rows...)
}

// Rows returns the rows in order. The slice is a copy; the rows are shared.
func (t *Table) Rows() []*Row {
	out := make([]*Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// RowsCount returns the number of rows.
func (t *Table) RowsCount() int {
	return len(t.rows)
}

// Row returns the row at position i.
func (t *Table) Row(i int) (*Row, bool) {
	if i < 0 || i >= len(t.rows) {
		return nil, false
	}
	return t.rows[i], true
}

// RowsMetadata extracts the metadata value under key from every row, in row
// order. Rows without the key yield nil.
func (t *Table) RowsMetadata(key string) []any {
	values := make([]any, len(t.rows))
	for i, row := range t.rows {
		if v, ok := row.Metadata(key); ok {
			values[i] = v
		}
	}
	return values
}

// DeleteRowsMetadata removes key from every row and returns how many rows
// carried it.
func (t *Table) DeleteRowsMetadata(key string) int {
	removed := 0
	for _, row := range t.rows {
		if row.DeleteMetadata(key) {
			removed++
		}
	}
	return removed
}

// Filter resolves the named filter in the table's registry, builds it with
// args and applies it.
func (t *Table) Filter(name string, args ...any) error {
	filter, err := t.registry.New(name, args)
	if err != nil {
		return err
	}
	return t.ApplyFilter(filter)
}

// ApplyFilter runs filter over the table, emitting start and completion
// events when the table has subscribers.
func (t *Table) ApplyFilter(filter Filter) error {
	start := time.Now()
	name := filter.Name()
	t.emit(newFilterEvent(FilterStart, t.id, name, len(t.rows), nil, start))

	if err := filter.Filter(t); err != nil {
		t.emit(newFilterEvent(FilterFailed, t.id, name, len(t.rows), err, start))
		return fmt.Errorf("filter '%s' failed: %w", name, err)
	}

	t.logger.Debug("Applied filter",
		zap.String("table", t.id),
		zap.String("filter", name),
		zap.Int("rows", len(t.rows)),
	)
	t.emit(newFilterEvent(FilterSuccess, t.id, name, len(t.rows), nil, start))
	return nil
}

// Subscribe registers callback for event and returns a subscription id.
func (t *Table) Subscribe(event FilterEventType, callback EventCallback) (string, error) {
	t.subMu.Lock()
	defer t.subMu.Unlock()

	if t.bus == nil {
		bus, err := events.NewTypedEventBus[FilterEvent](t.busConfig())
		if err != nil {
			return "", fmt.Errorf("could not initialize event bus: %w", err)
		}
		t.bus = bus
	}

	unsubscribe := t.bus.Subscribe(string(event), callback)
	id := uuid.New().String()
	t.subscriptions[id] = &subscription{event: event, unsubscribe: unsubscribe}
	return id, nil
}

// Unsubscribe removes a subscription created by Subscribe.
func (t *Table) Unsubscribe(id string) {
	t.subMu.Lock()
	defer t.subMu.Unlock()
	if sub, ok := t.subscriptions[id]; ok {
		sub.unsubscribe()
		delete(t.subscriptions, id)
	}
}

// busConfig delivers each event once and reports subscriber failures
// through the table logger. Subscribers run on the filtering goroutine.
func (t *Table) busConfig() *events.EventBusConfig {
	config := events.DefaultConfig()
	config.MaxRetries = 0
	config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	config.ErrorHandler = func(err *events.EventError) {
		t.logger.Error("Filter event handler failed",
			zap.String("table", t.id),
			zap.String("event", err.EventName),
			zap.Error(err.Err),
		)
	}
	config.DeadLetterHandler = func(ctx context.Context, event events.Event, err error) {
		t.logger.Warn("Filter event dropped",
			zap.String("table", t.id),
			zap.String("event", event.Name),
			zap.Error(err),
		)
	}
	config.TypeAssertionErrorHandler = func(eventName string, expected, got any) {
		t.logger.Debug("Unexpected filter event payload",
			zap.String("event", eventName),
			zap.String("got", fmt.Sprintf("%T", got)),
		)
	}
	return config
}

func (t *Table) emit(event FilterEvent) {
	t.subMu.Lock()
	bus := t.bus
	t.subMu.Unlock()
	if bus != nil {
		bus.Emit(string(event.Type), event)
	}
}
