package temporal

import (
	"testing"
	"time"
)

// 2025-06-02 and 2026-10-12 are Mondays, 2025-06-06 a Friday.
var (
	mondayMorning = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	fridayMorning = time.Date(2025, 6, 6, 9, 0, 0, 0, time.UTC)
	octoberMonday = time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)
)

func sameMinute(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day() &&
		a.Hour() == b.Hour() && a.Minute() == b.Minute()
}

func TestExtract(t *testing.T) {
	e := NewExtractor(nil)

	tests := []struct {
		name   string
		text   string
		ref    time.Time
		want   time.Time
		wantOK bool
	}{
		{
			name:   "weekday later this week",
			text:   "Friday at 3pm",
			ref:    mondayMorning,
			want:   time.Date(2025, 6, 6, 15, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "tomorrow",
			text:   "book me for tomorrow at 10am",
			ref:    mondayMorning,
			want:   time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "today's weekday with time still ahead",
			text:   "Friday at 3pm",
			ref:    fridayMorning,
			want:   time.Date(2025, 6, 6, 15, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "today's weekday with time already past",
			text:   "Friday at 8am",
			ref:    fridayMorning,
			want:   time.Date(2025, 6, 13, 8, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "next weekday naming today with time still ahead",
			text:   "next Friday at 3pm",
			ref:    fridayMorning,
			want:   time.Date(2025, 6, 6, 15, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "bare afternoon hour",
			text:   "Friday at 3",
			ref:    mondayMorning,
			want:   time.Date(2025, 6, 6, 15, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "bare hour with minutes",
			text:   "tomorrow at 4:30",
			ref:    mondayMorning,
			want:   time.Date(2025, 6, 3, 16, 30, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "bare morning hour already past today",
			text:   "Friday at 9",
			ref:    fridayMorning,
			want:   time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "month date already past this year",
			text:   "May 3rd at 2pm",
			ref:    octoberMonday,
			want:   time.Date(2027, 5, 3, 14, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "january date from october",
			text:   "January 20th at 10am",
			ref:    octoberMonday,
			want:   time.Date(2027, 1, 20, 10, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "month date later this year",
			text:   "December 5th at 11am",
			ref:    octoberMonday,
			want:   time.Date(2026, 12, 5, 11, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "weekday without time of day",
			text:   "Friday",
			ref:    mondayMorning,
			wantOK: false,
		},
		{
			name:   "month date without time of day",
			text:   "May 3rd",
			ref:    octoberMonday,
			wantOK: false,
		},
		{
			name:   "date in a past year",
			text:   "3/5/2024 at 10am",
			ref:    octoberMonday,
			wantOK: false,
		},
		{
			name:   "no temporal expression",
			text:   "call me later",
			ref:    mondayMorning,
			wantOK: false,
		},
		{
			name:   "empty",
			text:   "  ",
			ref:    mondayMorning,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.Extract(tt.text, tt.ref)
			if ok != tt.wantOK {
				t.Fatalf("Extract(%q) ok = %v, want %v (got %v)", tt.text, ok, tt.wantOK, got)
			}
			if !ok {
				return
			}
			if !sameMinute(got, tt.want) {
				t.Errorf("Extract(%q) = %v, want %v", tt.text, got, tt.want)
			}
			if !got.After(tt.ref) {
				t.Errorf("Extract(%q) = %v is not after reference %v", tt.text, got, tt.ref)
			}
		})
	}
}

func TestForwardBias(t *testing.T) {
	ref := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC) // Wednesday
	wed := time.Wednesday

	// a past instant without a weekday rolls forward by days
	got := forwardBias(time.Date(2025, 6, 4, 8, 0, 0, 0, time.UTC), ref, nil, rollDay)
	if !sameMinute(got, time.Date(2025, 6, 5, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("day roll = %v", got)
	}

	// a past instant with a weekday rolls forward by weeks
	got = forwardBias(time.Date(2025, 6, 4, 8, 0, 0, 0, time.UTC), ref, &wed, rollWeek)
	if !sameMinute(got, time.Date(2025, 6, 11, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("week roll = %v", got)
	}

	// a week-ahead instant for today's weekday comes back to today when still future
	got = forwardBias(time.Date(2025, 6, 11, 16, 0, 0, 0, time.UTC), ref, &wed, rollWeek)
	if !sameMinute(got, time.Date(2025, 6, 4, 16, 0, 0, 0, time.UTC)) {
		t.Errorf("today pull-back = %v", got)
	}

	// a past calendar date rolls forward by years, never by days
	got = forwardBias(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), ref, nil, rollYear)
	if !sameMinute(got, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("year roll = %v", got)
	}
}

func TestBareHour(t *testing.T) {
	tests := []struct {
		text      string
		hour, min int
		wantOK    bool
	}{
		{"Friday at 3", 15, 0, true},
		{"at 7:45 please", 19, 45, true},
		{"at 10 o'clock", 10, 0, true},
		{"at 12", 12, 0, true},
		{"at 14", 14, 0, true},
		{"at 3pm", 0, 0, false},
		{"at 0", 0, 0, false},
		{"at 25", 0, 0, false},
		{"Friday", 0, 0, false},
	}
	for _, tt := range tests {
		hour, min, ok := bareHour(tt.text)
		if ok != tt.wantOK || hour != tt.hour || min != tt.min {
			t.Errorf("bareHour(%q) = %d, %d, %v; want %d, %d, %v", tt.text, hour, min, ok, tt.hour, tt.min, tt.wantOK)
		}
	}
}

func TestNamedWeekday(t *testing.T) {
	tests := map[string]*time.Weekday{
		"on Tuesday morning": ptr(time.Tuesday),
		"thurs at 4pm":       ptr(time.Thursday),
		"SATURDAY":           ptr(time.Saturday),
		"tomorrow at 10":     nil,
		"monthly":            nil,
	}
	for in, want := range tests {
		got := namedWeekday(in)
		switch {
		case want == nil && got != nil:
			t.Errorf("namedWeekday(%q) = %v, want nil", in, *got)
		case want != nil && (got == nil || *got != *want):
			t.Errorf("namedWeekday(%q) = %v, want %v", in, got, *want)
		}
	}
}

func ptr(d time.Weekday) *time.Weekday { return &d }
