package loan

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOverdue_DayGranularity(t *testing.T) {
	l := &Loan{Status: StatusOngoing, DueDate: date(2026, 3, 25)}

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"day before due", date(2026, 3, 24), false},
		{"on the due date", date(2026, 3, 25), false},
		{"late on the due date", time.Date(2026, 3, 25, 23, 59, 0, 0, time.UTC), false},
		{"day after", date(2026, 3, 26), true},
		{"first minute of day after", time.Date(2026, 3, 26, 0, 1, 0, 0, time.UTC), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := l.Overdue(tc.now); got != tc.want {
				t.Fatalf("Overdue(%v) = %v, want %v", tc.now, got, tc.want)
			}
		})
	}
}

func TestOverdue_ReturnedLoanNeverOverdue(t *testing.T) {
	ret := date(2026, 3, 30)
	l := &Loan{Status: StatusReturned, DueDate: date(2026, 3, 25), ReturnDate: &ret}

	if l.Overdue(date(2026, 4, 10)) {
		t.Fatal("returned loan reported overdue")
	}
	if got := l.DaysLate(date(2026, 4, 10)); got != 0 {
		t.Fatalf("DaysLate = %d, want 0", got)
	}
}

func TestDaysLate(t *testing.T) {
	l := &Loan{Status: StatusOngoing, DueDate: date(2026, 3, 25)}

	if got := l.DaysLate(date(2026, 3, 25)); got != 0 {
		t.Fatalf("on due date: DaysLate = %d, want 0", got)
	}
	if got := l.DaysLate(date(2026, 3, 26)); got != 1 {
		t.Fatalf("one day late: DaysLate = %d, want 1", got)
	}
	if got := l.DaysLate(time.Date(2026, 3, 30, 8, 30, 0, 0, time.UTC)); got != 5 {
		t.Fatalf("five days late: DaysLate = %d, want 5", got)
	}
}
