package timestamp

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestAtTimeRoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 14, 15, 9, 26, 535897932, time.UTC)
	ts := At(now)
	if !ts.Time().Equal(now) {
		t.Fatalf("Time() = %v, wanted %v", ts.Time(), now)
	}
}

func TestParseStringRoundTrip(t *testing.T) {
	ts := New(1700000000, 123456789)
	parsed, err := Parse(ts.String())
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", ts.String(), err)
	}
	if parsed != ts {
		t.Fatalf("Parse(String) = %+v, wanted %+v", parsed, ts)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse("not a timestamp"); err == nil {
		t.Fatalf("Parse accepted garbage")
	}
}

func TestNewNormalizesNanos(t *testing.T) {
	ts := New(10, 2_500_000_000)
	if ts.Secs != 12 || ts.Nsecs != 500_000_000 {
		t.Fatalf("New normalized to %+v, wanted secs 12 nsecs 5e8", ts)
	}
}

func TestAdd(t *testing.T) {
	ts := New(100, 900_000_000)
	got, err := ts.Add(200 * time.Millisecond)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if got.Secs != 101 || got.Nsecs != 100_000_000 {
		t.Fatalf("Add = %+v, wanted secs 101 nsecs 1e8", got)
	}

	got, err = ts.SubDuration(time.Second)
	if err != nil {
		t.Fatalf("SubDuration failed: %v", err)
	}
	if got.Secs != 99 || got.Nsecs != 900_000_000 {
		t.Fatalf("SubDuration = %+v, wanted secs 99 nsecs 9e8", got)
	}
}

func TestAddOverflow(t *testing.T) {
	ts := New(math.MaxInt64-1, 0)
	if _, err := ts.Add(10 * time.Second); !errors.Is(err, ErrOverflow) {
		t.Fatalf("Add near MaxInt64 = %v, wanted ErrOverflow", err)
	}
	ts = New(math.MinInt64+1, 0)
	if _, err := ts.SubDuration(10 * time.Second); !errors.Is(err, ErrOverflow) {
		t.Fatalf("SubDuration near MinInt64 = %v, wanted ErrOverflow", err)
	}
}

func TestSub(t *testing.T) {
	a := New(100, 500_000_000)
	b := New(99, 750_000_000)
	d, err := a.Sub(b)
	if err != nil {
		t.Fatalf("Sub failed: %v", err)
	}
	if d != 750*time.Millisecond {
		t.Fatalf("Sub = %v, wanted 750ms", d)
	}

	if _, err := New(math.MaxInt64/2, 0).Sub(New(math.MinInt64/2, 0)); !errors.Is(err, ErrOverflow) {
		t.Fatalf("huge Sub did not overflow")
	}
}

func TestCompare(t *testing.T) {
	early := New(10, 1)
	late := New(10, 2)
	if !early.Before(late) || !late.After(early) {
		t.Fatalf("ordering is wrong for %+v vs %+v", early, late)
	}
	if early.Compare(early) != 0 {
		t.Fatalf("Compare(self) != 0")
	}
	if New(9, 999_999_999).Compare(New(10, 0)) != -1 {
		t.Fatalf("seconds do not dominate nanos in Compare")
	}
}

func TestTextMarshalRoundTrip(t *testing.T) {
	ts := New(1500000000, 42)
	text, err := ts.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}
	var back Timestamp
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if back != ts {
		t.Fatalf("text round trip = %+v, wanted %+v", back, ts)
	}
}
