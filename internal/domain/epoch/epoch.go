package epoch

import (
	"fmt"
	"strconv"
	"time"
)

// Millis is a timestamp carried on the wire as milliseconds since the Unix epoch.
// The zero value encodes as null.
type Millis struct {
	time.Time
}

// New wraps t.
func New(t time.Time) Millis { return Millis{Time: t} }

// Now returns the current time truncated to millisecond precision.
func Now() Millis { return Millis{Time: time.UnixMilli(time.Now().UnixMilli())} }

func (m Millis) MarshalJSON() ([]byte, error) {
	if m.IsZero() {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, m.UnixMilli(), 10), nil
}

func (m *Millis) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		m.Time = time.Time{}
		return nil
	}
	// Fractional milliseconds are accepted and truncated.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("epoch: invalid milliseconds %q: %w", s, err)
	}
	m.Time = time.UnixMilli(int64(f))
	return nil
}
