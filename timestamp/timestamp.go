// Package timestamp provides the UTC timestamp embedded in chain headers:
// whole seconds since the Unix epoch plus a nanosecond remainder, with
// overflow-checked arithmetic and an RFC 3339 text form.
package timestamp

import (
	"errors"
	"fmt"
	"time"
)

// ErrOverflow reports timestamp arithmetic that left the representable
// range.
var ErrOverflow = errors.New("timestamp: arithmetic overflow")

// Timestamp is a UTC instant. The zero value is the Unix epoch.
type Timestamp struct {
	// Secs is seconds since 1970-01-01T00:00:00Z.
	Secs int64 `msgpack:"s"`
	// Nsecs is the nanosecond remainder, always in [0, 1e9).
	Nsecs uint32 `msgpack:"n"`
}

// Now returns the current time.
func Now() Timestamp {
	return At(time.Now())
}

// At converts a time.Time.
func At(t time.Time) Timestamp {
	return Timestamp{Secs: t.Unix(), Nsecs: uint32(t.Nanosecond())}
}

// New builds a timestamp from raw seconds and nanoseconds, normalizing
// nsecs >= 1e9 into the seconds.
func New(secs int64, nsecs uint32) Timestamp {
	return Timestamp{Secs: secs + int64(nsecs)/1e9, Nsecs: nsecs % 1e9}
}

// Time converts back to a time.Time in UTC.
func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Secs, int64(ts.Nsecs)).UTC()
}

// String renders the timestamp as RFC 3339 with nanoseconds.
func (ts Timestamp) String() string {
	return ts.Time().Format(time.RFC3339Nano)
}

// Parse reads an RFC 3339 string.
func Parse(s string) (Timestamp, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("timestamp: %w", err)
	}
	return At(t), nil
}

// MarshalText implements encoding.TextMarshaler.
func (ts Timestamp) MarshalText() ([]byte, error) {
	return []byte(ts.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (ts *Timestamp) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// Add returns ts shifted forward by d, or ErrOverflow if the result is not
// representable.
func (ts Timestamp) Add(d time.Duration) (Timestamp, error) {
	return ts.shift(int64(d))
}

// SubDuration returns ts shifted backward by d, or ErrOverflow.
func (ts Timestamp) SubDuration(d time.Duration) (Timestamp, error) {
	if d == time.Duration(-1 << 63) {
		return Timestamp{}, ErrOverflow
	}
	return ts.shift(-int64(d))
}

// Sub returns the duration ts - other, or ErrOverflow if it does not fit in
// a time.Duration.
func (ts Timestamp) Sub(other Timestamp) (time.Duration, error) {
	secs := ts.Secs - other.Secs
	if (other.Secs > 0 && secs > ts.Secs) || (other.Secs < 0 && secs < ts.Secs) {
		return 0, ErrOverflow
	}
	nsecs := int64(ts.Nsecs) - int64(other.Nsecs) // always within (-1e9, 1e9)
	const maxDur = int64(1<<63 - 1)
	if secs > (maxDur-nsecs)/1e9 || secs < (-maxDur-1-nsecs)/1e9 {
		return 0, ErrOverflow
	}
	return time.Duration(secs*1e9 + nsecs), nil
}

// Compare orders two timestamps: -1 if ts is earlier than other, 0 if
// equal, +1 if later.
func (ts Timestamp) Compare(other Timestamp) int {
	switch {
	case ts.Secs < other.Secs:
		return -1
	case ts.Secs > other.Secs:
		return 1
	case ts.Nsecs < other.Nsecs:
		return -1
	case ts.Nsecs > other.Nsecs:
		return 1
	}
	return 0
}

// Before reports whether ts is strictly earlier than other.
func (ts Timestamp) Before(other Timestamp) bool {
	return ts.Compare(other) < 0
}

// After reports whether ts is strictly later than other.
func (ts Timestamp) After(other Timestamp) bool {
	return ts.Compare(other) > 0
}

func (ts Timestamp) shift(nanos int64) (Timestamp, error) {
	secs := nanos / 1e9
	nsecs := int64(ts.Nsecs) + nanos%1e9
	if nsecs < 0 {
		nsecs += 1e9
		secs--
	} else if nsecs >= 1e9 {
		nsecs -= 1e9
		secs++
	}
	total := ts.Secs + secs
	if (secs > 0 && total < ts.Secs) || (secs < 0 && total > ts.Secs) {
		return Timestamp{}, ErrOverflow
	}
	return Timestamp{Secs: total, Nsecs: uint32(nsecs)}, nil
}
