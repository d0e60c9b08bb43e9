package domain

import (
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"disjoint before", day(0), day(5), day(6), day(10), false},
		{"disjoint after", day(6), day(10), day(0), day(5), false},
		{"checkout day equals checkin day", day(0), day(5), day(5), day(10), false},
		{"one day shared", day(0), day(6), day(5), day(10), true},
		{"identical intervals", day(0), day(5), day(0), day(5), true},
		{"contained interval", day(0), day(10), day(2), day(5), true},
		{"containing interval", day(2), day(5), day(0), day(10), true},
		{"single night overlap at end", day(4), day(10), day(0), day(5), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.s1, tc.e1, tc.s2, tc.e2); got != tc.want {
				t.Fatalf("Overlaps(%v, %v, %v, %v) = %v, want %v",
					tc.s1, tc.e1, tc.s2, tc.e2, got, tc.want)
			}
			// Overlap is symmetric in the two intervals.
			if got := Overlaps(tc.s2, tc.e2, tc.s1, tc.e1); got != tc.want {
				t.Fatalf("Overlaps is not symmetric for %s", tc.name)
			}
		})
	}
}

func TestOverlapsBooking(t *testing.T) {
	t.Parallel()

	b := Booking{StartDate: day(3), EndDate: day(7)}

	if !OverlapsBooking(day(6), day(9), b) {
		t.Fatalf("expected [d6, d9) to overlap booking [d3, d7)")
	}
	if OverlapsBooking(day(7), day(9), b) {
		t.Fatalf("expected [d7, d9) not to overlap booking [d3, d7)")
	}
}

func TestBookingStatusIsActive(t *testing.T) {
	t.Parallel()

	active := map[BookingStatus]bool{
		BookingStatusPending:   true,
		BookingStatusConfirmed: true,
		BookingStatusPaid:      true,
		BookingStatusCancelled: false,
		BookingStatusExpired:   false,
	}
	for status, want := range active {
		if got := status.IsActive(); got != want {
			t.Fatalf("%s.IsActive() = %v, want %v", status, got, want)
		}
	}

	// ActiveStatuses and IsActive describe the same set.
	listed := make(map[BookingStatus]bool, len(ActiveStatuses))
	for _, s := range ActiveStatuses {
		if !s.IsActive() {
			t.Fatalf("ActiveStatuses contains inactive status %s", s)
		}
		listed[s] = true
	}
	for status, want := range active {
		if want && !listed[status] {
			t.Fatalf("ActiveStatuses is missing %s", status)
		}
	}
}

func TestBookingTransitions(t *testing.T) {
	t.Parallel()

	t.Run("pending can pay and cancel", func(t *testing.T) {
		b := Booking{Status: BookingStatusPending}
		if !b.CanPay() {
			t.Fatalf("expected PENDING booking to be payable")
		}
		if !b.CanCancel() {
			t.Fatalf("expected PENDING booking to be cancellable")
		}
	})

	t.Run("paid can cancel but not pay again", func(t *testing.T) {
		b := Booking{Status: BookingStatusPaid}
		if b.CanPay() {
			t.Fatalf("expected PAID booking not to be payable")
		}
		if !b.CanCancel() {
			t.Fatalf("expected PAID booking to be cancellable")
		}
	})

	t.Run("terminal statuses stay terminal", func(t *testing.T) {
		for _, status := range []BookingStatus{BookingStatusCancelled, BookingStatusExpired} {
			b := Booking{Status: status}
			if b.CanPay() || b.CanCancel() {
				t.Fatalf("expected %s booking to reject further transitions", status)
			}
		}
	})
}
