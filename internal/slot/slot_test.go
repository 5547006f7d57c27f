package slot

import (
	"testing"
	"time"
)

var (
	nine   = time.Date(2025, time.August, 6, 9, 0, 0, 0, time.UTC)
	ten    = time.Date(2025, time.August, 6, 10, 0, 0, 0, time.UTC)
	eleven = time.Date(2025, time.August, 6, 11, 0, 0, 0, time.UTC)
)

func TestIntervalSame(t *testing.T) {
	t.Run("exact boundaries match", func(t *testing.T) {
		a := Interval{Start: nine, End: ten}
		b := Interval{Start: nine, End: ten}
		if !a.Same(b) {
			t.Fatalf("expected intervals to match")
		}
	})

	t.Run("matches across time zones", func(t *testing.T) {
		jst := time.FixedZone("JST", 9*60*60)
		a := Interval{Start: nine, End: ten}
		b := Interval{Start: nine.In(jst), End: ten.In(jst)}
		if !a.Same(b) {
			t.Fatalf("expected instant equality regardless of zone")
		}
	})

	t.Run("partial overlap is a different slot", func(t *testing.T) {
		a := Interval{Start: nine, End: ten}
		b := Interval{Start: nine.Add(30 * time.Minute), End: ten.Add(30 * time.Minute)}
		if a.Same(b) {
			t.Fatalf("overlapping but unequal intervals must not match")
		}
	})
}

func TestIntervalValid(t *testing.T) {
	if (Interval{Start: nine, End: ten}).Valid() == false {
		t.Fatalf("expected positive interval to be valid")
	}
	if (Interval{Start: ten, End: nine}).Valid() {
		t.Fatalf("expected reversed interval to be invalid")
	}
	if (Interval{Start: nine, End: nine}).Valid() {
		t.Fatalf("expected zero-length interval to be invalid")
	}
	if (Interval{}).Valid() {
		t.Fatalf("expected zero interval to be invalid")
	}
}

func TestIntervalKey(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	a := Interval{Start: nine, End: ten}
	b := Interval{Start: nine.In(jst), End: ten.In(jst)}
	if a.Key() != b.Key() {
		t.Fatalf("expected identical keys for identical instants, got %q vs %q", a.Key(), b.Key())
	}
}

func TestDetectConflicts(t *testing.T) {
	existing := []Booking{
		{
			MeetingID: "m-1",
			Requester: "alice",
			Requestee: "bob",
			Interval:  Interval{Start: nine, End: ten},
		},
		{
			MeetingID: "m-2",
			Requester: "carol",
			Requestee: "dave",
			Interval:  Interval{Start: ten, End: eleven},
		},
	}

	t.Run("shared attendee on identical interval conflicts", func(t *testing.T) {
		candidate := Booking{
			Requester: "bob",
			Requestee: "erin",
			Interval:  Interval{Start: nine, End: ten},
		}
		conflicts := DetectConflicts(existing, candidate)
		if len(conflicts) != 1 {
			t.Fatalf("expected one conflict, got %v", conflicts)
		}
		if conflicts[0].MeetingID != "m-1" || conflicts[0].AttendeeID != "bob" {
			t.Fatalf("unexpected conflict: %+v", conflicts[0])
		}
	})

	t.Run("requestee side is also checked", func(t *testing.T) {
		candidate := Booking{
			Requester: "erin",
			Requestee: "alice",
			Interval:  Interval{Start: nine, End: ten},
		}
		conflicts := DetectConflicts(existing, candidate)
		if len(conflicts) != 1 || conflicts[0].AttendeeID != "alice" {
			t.Fatalf("expected conflict for alice, got %v", conflicts)
		}
	})

	t.Run("same interval with disjoint attendees is free", func(t *testing.T) {
		candidate := Booking{
			Requester: "erin",
			Requestee: "frank",
			Interval:  Interval{Start: nine, End: ten},
		}
		if conflicts := DetectConflicts(existing, candidate); conflicts != nil {
			t.Fatalf("expected no conflicts, got %v", conflicts)
		}
	})

	t.Run("different interval with shared attendee is free", func(t *testing.T) {
		candidate := Booking{
			Requester: "alice",
			Requestee: "erin",
			Interval:  Interval{Start: ten, End: eleven},
		}
		if conflicts := DetectConflicts(existing, candidate); conflicts != nil {
			t.Fatalf("expected no conflicts, got %v", conflicts)
		}
	})

	t.Run("booking never conflicts with itself", func(t *testing.T) {
		candidate := existing[0]
		if conflicts := DetectConflicts(existing, candidate); conflicts != nil {
			t.Fatalf("expected no self conflict, got %v", conflicts)
		}
	})

	t.Run("invalid candidate interval yields nothing", func(t *testing.T) {
		candidate := Booking{
			Requester: "alice",
			Requestee: "bob",
			Interval:  Interval{Start: ten, End: nine},
		}
		if conflicts := DetectConflicts(existing, candidate); conflicts != nil {
			t.Fatalf("expected no conflicts for invalid interval, got %v", conflicts)
		}
	})
}

func TestBusyAt(t *testing.T) {
	bookings := []Booking{
		{MeetingID: "m-1", Requester: "alice", Requestee: "bob", Interval: Interval{Start: nine, End: ten}},
	}

	if !BusyAt(bookings, "alice", Interval{Start: nine, End: ten}) {
		t.Fatalf("expected alice to be busy at 09:00-10:00")
	}
	if BusyAt(bookings, "alice", Interval{Start: ten, End: eleven}) {
		t.Fatalf("expected alice to be free at 10:00-11:00")
	}
	if BusyAt(bookings, "", Interval{Start: nine, End: ten}) {
		t.Fatalf("empty attendee id must never be busy")
	}
}
