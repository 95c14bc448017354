package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// TimestampKind tells where a Timestamp came from.
type TimestampKind uint8

const (
	// ServerTime is a time assigned by the storage.
	ServerTime TimestampKind = iota + 1
	// LocalTime is a time assigned by a client before the storage saw the record.
	LocalTime
)

// Timestamp is either a server-assigned or a locally-assigned time.
// Zero value is an unset timestamp.
type Timestamp struct {
	kind TimestampKind
	t    time.Time
}

// NewServerTime ...
func NewServerTime(t time.Time) Timestamp {
	return Timestamp{kind: ServerTime, t: t.UTC()}
}

// NewLocalTime ...
func NewLocalTime(t time.Time) Timestamp {
	return Timestamp{kind: LocalTime, t: t.UTC()}
}

// Kind returns origin of timestamp, 0 when unset.
func (ts Timestamp) Kind() TimestampKind {
	return ts.kind
}

// IsZero returns true if timestamp is unset.
func (ts Timestamp) IsZero() bool {
	return ts.kind == 0
}

// Time returns the instant regardless of origin.
func (ts Timestamp) Time() time.Time {
	return ts.t
}

// OrNow returns the timestamp's time or now if it is unset.
func (ts Timestamp) OrNow() time.Time {
	if ts.IsZero() {
		return time.Now().UTC()
	}
	return ts.t
}

type firestoreTimestamp struct {
	Seconds     *int64 `json:"_seconds"`
	Nanoseconds int64  `json:"_nanoseconds"`
}

// UnmarshalJSON accepts Firestore export timestamps ({"_seconds":1,"_nanoseconds":2}) as ServerTime
// and RFC3339 strings or epoch milliseconds as LocalTime.
func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*ts = Timestamp{}
		return nil
	case b[0] == '{':
		var v firestoreTimestamp
		if err := json.Unmarshal(b, &v); err != nil {
			return fmt.Errorf("failed to decode server timestamp: %w", err)
		}
		if v.Seconds == nil {
			return fmt.Errorf("server timestamp has no _seconds field")
		}
		*ts = NewServerTime(time.Unix(*v.Seconds, v.Nanoseconds))
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*ts = Timestamp{}
			return nil
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("failed to parse local timestamp: %w", err)
		}
		*ts = NewLocalTime(t)
		return nil
	default:
		var ms int64
		if err := json.Unmarshal(b, &ms); err != nil {
			return fmt.Errorf("failed to decode epoch timestamp: %w", err)
		}
		*ts = NewLocalTime(time.Unix(0, ms*int64(time.Millisecond)))
		return nil
	}
}

// MarshalJSON writes the timestamp as epoch milliseconds or null when unset.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.t.UnixMilli())
}
