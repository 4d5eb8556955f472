package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// Event is one row change. Record holds the row after the change (before it, for deletes).
type Event struct {
	Table     string          `json:"table"`
	Type      EventType       `json:"type"`
	Record    json.RawMessage `json:"record,omitempty"`
	OldRecord json.RawMessage `json:"old_record,omitempty"`
	Origin    string          `json:"origin,omitempty"` // client id of the writer, if known
	At        time.Time       `json:"at"`
}

// NewEvent marshals record and old into an event. Nil values are omitted.
func NewEvent(table string, typ EventType, record, old interface{}, origin string) (Event, error) {
	ev := Event{Table: table, Type: typ, Origin: origin, At: time.Now().UTC()}
	var err error
	if record != nil {
		if ev.Record, err = json.Marshal(record); err != nil {
			return Event{}, fmt.Errorf("marshal record: %w", err)
		}
	}
	if old != nil {
		if ev.OldRecord, err = json.Marshal(old); err != nil {
			return Event{}, fmt.Errorf("marshal old record: %w", err)
		}
	}
	return ev, nil
}

// Decode unmarshals Record into v.
func (e Event) Decode(v interface{}) error {
	if len(e.Record) == 0 {
		return errors.New("event has no record")
	}
	return json.Unmarshal(e.Record, v)
}

// Filter selects events of one table whose Column equals Value. Empty Column matches the whole table.
type Filter struct {
	Table  string
	Column string
	Value  string
}

var ErrInvalidFilter = errors.New("invalid filter")

// ParseFilter parses the row predicate syntax "column=eq.value". An empty expression selects the whole table.
func ParseFilter(table, expr string) (Filter, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return Filter{}, fmt.Errorf("%w: table is required", ErrInvalidFilter)
	}
	f := Filter{Table: table}
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return f, nil
	}
	column, rest, ok := strings.Cut(expr, "=")
	if !ok {
		return Filter{}, fmt.Errorf("%w: %q", ErrInvalidFilter, expr)
	}
	value, ok := strings.CutPrefix(rest, "eq.")
	if !ok || column == "" || value == "" {
		return Filter{}, fmt.Errorf("%w: only column=eq.value is supported, got %q", ErrInvalidFilter, expr)
	}
	f.Column, f.Value = column, value
	return f, nil
}

func (f Filter) String() string {
	if f.Column == "" {
		return f.Table
	}
	return f.Table + "?" + f.Column + "=eq." + f.Value
}

// Matches reports whether a change of table whose filterable columns are columns passes f.
func (f Filter) Matches(table string, columns map[string]string) bool {
	if f.Table != table {
		return false
	}
	if f.Column == "" {
		return true
	}
	v, ok := columns[f.Column]
	return ok && v == f.Value
}
