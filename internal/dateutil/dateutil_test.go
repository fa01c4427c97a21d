package dateutil

import (
	"errors"
	"testing"
	"time"
)

// Wednesday
var now = time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseRelativeDate(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr error
	}{
		{input: "hoje", want: day(2025, 3, 12)},
		{input: "TODAY", want: day(2025, 3, 12)},
		{input: "ontem", want: day(2025, 3, 11)},
		{input: "yesterday", want: day(2025, 3, 11)},
		{input: "semana", want: day(2025, 3, 10)},
		{input: "seg", want: day(2025, 3, 10)},
		{input: "QUA", want: day(2025, 3, 12)},
		{input: "qui", want: day(2025, 3, 6)},
		{input: "dom", want: day(2025, 3, 9)},
		{input: "7d", want: day(2025, 3, 5)},
		{input: "0d", want: day(2025, 3, 12)},
		{input: " 2025-02-28 ", want: day(2025, 2, 28)},
		{input: "2025-03-13", wantErr: ErrDateInFuture},
		{input: "-3d", wantErr: ErrInvalidDateFormat},
		{input: "12/03/2025", wantErr: ErrInvalidDateFormat},
		{input: "", wantErr: ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRelativeDate(tt.input, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("got error %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewDateRange(t *testing.T) {
	t.Run("both bounds", func(t *testing.T) {
		dr, err := NewDateRange("2025-03-01", "ontem", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !dr.Start.Equal(day(2025, 3, 1)) || !dr.End.Equal(day(2025, 3, 11)) {
			t.Errorf("got %v..%v", dr.Start, dr.End)
		}
	})

	t.Run("open range", func(t *testing.T) {
		dr, err := NewDateRange("", "", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !dr.IsOpen() {
			t.Error("expected an open range")
		}
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := NewDateRange("hoje", "ontem", now)
		if !errors.Is(err, ErrEndDateBeforeStart) {
			t.Errorf("got error %v, want %v", err, ErrEndDateBeforeStart)
		}
	})

	t.Run("invalid bound", func(t *testing.T) {
		_, err := NewDateRange("amanha", "", now)
		if !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
		}
	})
}

func TestDateRange_Contains(t *testing.T) {
	dr := &DateRange{Start: day(2025, 3, 10), End: day(2025, 3, 11)}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"before start", time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC), false},
		{"start midnight", day(2025, 3, 10), true},
		{"end evening", time.Date(2025, 3, 11, 23, 59, 59, 0, time.UTC), true},
		{"day after end", day(2025, 3, 12), false},
		{"other zone same instant", time.Date(2025, 3, 11, 22, 0, 0, 0, time.FixedZone("BRT", -3*60*60)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dr.Contains(tt.at); got != tt.want {
				t.Errorf("Contains(%v) = %t, want %t", tt.at, got, tt.want)
			}
		})
	}

	var open *DateRange
	if !open.Contains(now) {
		t.Error("a nil range contains everything")
	}
	if !(&DateRange{End: day(2025, 3, 11)}).Contains(day(2020, 1, 1)) {
		t.Error("an open start should contain early dates")
	}
}

func TestWeekRange(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		mon  time.Time
	}{
		{"monday", day(2025, 3, 10), day(2025, 3, 10)},
		{"wednesday", now, day(2025, 3, 10)},
		{"sunday", day(2025, 3, 16), day(2025, 3, 10)},
		{"across month", day(2025, 3, 2), day(2025, 2, 24)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mon, sun := WeekRange(tt.in)
			if !mon.Equal(tt.mon) {
				t.Errorf("monday: got %v, want %v", mon, tt.mon)
			}
			if !sun.Equal(tt.mon.AddDate(0, 0, 6)) {
				t.Errorf("sunday: got %v, want %v", sun, tt.mon.AddDate(0, 0, 6))
			}
		})
	}
}
