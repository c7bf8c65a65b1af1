// Package status provides the process-wide status bus: a state holder with a
// fixed set of named fields whose value transitions are broadcast, in order,
// on an unbounded event log.
//
// The bus is an explicit instance handed to every component that needs it.
// Writes that do not change a value are suppressed, so consumers only ever
// observe edges.
package status

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Gorgooo61/AI-character/pkg/logger"
)

// Bus holds the current value of every Field and the ordered log of
// transitions not yet consumed.
type Bus struct {
	mu     sync.Mutex
	values map[Field]Value
	events []Event
	last   time.Time

	// notify is signalled (non-blocking, capacity 1) whenever events grow.
	notify chan struct{}

	now    func() time.Time
	logger *slog.Logger
	mirror bool
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger mirrors every emitted event to l at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bus) {
		if l != nil {
			b.logger = l
			b.mirror = true
		}
	}
}

// WithClock overrides the time source used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Bus) {
		if now != nil {
			b.now = now
		}
	}
}

// New creates a Bus with every field at its default value.
func New(opts ...Option) *Bus {
	b := &Bus{
		values: make(map[Field]Value, len(defaults)),
		notify: make(chan struct{}, 1),
		now:    time.Now,
		logger: logger.Nop(),
	}
	for f, v := range defaults {
		b.values[f] = Value{Value: v}
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Set stores value in field and emits one event when it differs from the
// current value. It returns whether an event was emitted. Unknown fields and
// values of the wrong type are ignored and report false.
func (b *Bus) Set(field Field, value any) bool {
	def, ok := defaults[field]
	if !ok || !sameKind(def, value) {
		b.logger.Warn("status set rejected",
			"field", string(field),
			"value", value,
		)
		return false
	}

	b.mu.Lock()
	if b.values[field].Value == value {
		b.mu.Unlock()
		return false
	}

	ts := b.now()
	if !ts.After(b.last) {
		ts = b.last.Add(time.Nanosecond)
	}
	b.last = ts

	b.values[field] = Value{Value: value, ChangedAt: ts}
	b.events = append(b.events, Event{Field: field, Value: value, Time: ts})
	b.mu.Unlock()

	select {
	case b.notify <- struct{}{}:
	default:
	}

	if b.mirror {
		b.logger.Debug("[SIGNAL] "+string(field)+" -> "+formatValue(value),
			"field", string(field),
			"value", value,
		)
	}
	return true
}

// SetBool is Set for boolean fields.
func (b *Bus) SetBool(field Field, value bool) bool {
	return b.Set(field, value)
}

// SetString is Set for string fields.
func (b *Bus) SetString(field Field, value string) bool {
	return b.Set(field, value)
}

// Get returns the current value of field. Unknown fields return the zero Value.
func (b *Bus) Get(field Field) Value {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.values[field]
}

// Bool returns the value of a boolean field, false when the field is unknown
// or not boolean.
func (b *Bus) Bool(field Field) bool {
	v, _ := b.Get(field).Value.(bool)
	return v
}

// String returns the value of a string field, "" when the field is unknown or
// not a string.
func (b *Bus) String(field Field) string {
	v, _ := b.Get(field).Value.(string)
	return v
}

// Snapshot returns a copy of every field's current value.
func (b *Bus) Snapshot() map[Field]Value {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[Field]Value, len(b.values))
	for f, v := range b.values {
		out[f] = v
	}
	return out
}

// Next removes and returns the oldest unconsumed event, blocking until one is
// available or ctx is done.
func (b *Bus) Next(ctx context.Context) (Event, error) {
	for {
		b.mu.Lock()
		if len(b.events) > 0 {
			ev := b.events[0]
			b.events[0] = Event{}
			b.events = b.events[1:]
			more := len(b.events) > 0
			b.mu.Unlock()

			if more {
				select {
				case b.notify <- struct{}{}:
				default:
				}
			}
			return ev, nil
		}
		b.mu.Unlock()

		select {
		case <-ctx.Done():
			return Event{}, ctx.Err()
		case <-b.notify:
		}
	}
}

// Drain removes and returns every unconsumed event, oldest first.
func (b *Bus) Drain() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.events
	b.events = nil
	return out
}

// Pending reports how many events have not been consumed.
func (b *Bus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

func sameKind(def, value any) bool {
	switch def.(type) {
	case bool:
		_, ok := value.(bool)
		return ok
	case string:
		_, ok := value.(string)
		return ok
	}
	return false
}

func formatValue(v any) string {
	switch t := v.(type) {
	case bool:
		if t {
			return "true"
		}
		return "false"
	case string:
		if t == "" {
			return `""`
		}
		return t
	}
	return ""
}
