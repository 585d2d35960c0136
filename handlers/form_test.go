package handlers

import (
	"testing"
	"time"
)

func TestParseWorkDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2025-06-01", want: "2025-06-01T00:00:00Z"},
		{in: "2024-02-29", want: "2024-02-29T00:00:00Z"},
		{in: "2025-02-29", wantErr: true},
		{in: "2025-13-01", wantErr: true},
		{in: "2025-6-1", wantErr: true},
		{in: "01-06-2025", wantErr: true},
		{in: "2025-06-01T10:00", wantErr: true},
		{in: "", wantErr: true},
		{in: "not a date", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseWorkDate(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseWorkDate(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseWorkDate(%q): %v", tt.in, err)
			}
			if got.Format(time.RFC3339) != tt.want {
				t.Errorf("parseWorkDate(%q) = %s, want %s", tt.in, got.Format(time.RFC3339), tt.want)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		hour    int
		minute  int
		wantErr bool
	}{
		{in: "00:00"},
		{in: "09:30", hour: 9, minute: 30},
		{in: "23:59", hour: 23, minute: 59},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "9:30", wantErr: true},
		{in: "09:30:00", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			hour, minute, err := parseClock(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseClock(%q) = %d:%d, want error", tt.in, hour, minute)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseClock(%q): %v", tt.in, err)
			}
			if hour != tt.hour || minute != tt.minute {
				t.Errorf("parseClock(%q) = %d:%d, want %d:%d", tt.in, hour, minute, tt.hour, tt.minute)
			}
		})
	}
}

func TestParseManualHours(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "0", want: 0},
		{in: "3", want: 3},
		{in: "2.556", want: 2.56},
		{in: "24", want: 24},
		{in: "24.01", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "NaN", wantErr: true},
		{in: "+Inf", wantErr: true},
		{in: "three", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseManualHours(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseManualHours(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseManualHours(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("parseManualHours(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLogEntryRequest_Build(t *testing.T) {
	tests := []struct {
		name      string
		req       logEntryRequest
		wantHours float64
		wantStart string
		wantEnd   string
		wantErr   bool
	}{
		{
			name:      "timed entry",
			req:       logEntryRequest{WorkDate: "2025-06-01", StartTime: "08:00", EndTime: "12:30"},
			wantHours: 4.5,
			wantStart: "2025-06-01T08:00:00Z",
			wantEnd:   "2025-06-01T12:30:00Z",
		},
		{
			name:      "timed entry wrapping past midnight",
			req:       logEntryRequest{WorkDate: "2025-06-01", StartTime: "22:00", EndTime: "02:00"},
			wantHours: 4.0,
			wantStart: "2025-06-01T22:00:00Z",
			wantEnd:   "2025-06-02T02:00:00Z",
		},
		{
			name:      "manual entry pins start and end to midnight",
			req:       logEntryRequest{WorkDate: "2025-06-01", ManualHours: "2.5"},
			wantHours: 2.5,
			wantStart: "2025-06-01T00:00:00Z",
			wantEnd:   "2025-06-01T00:00:00Z",
		},
		{
			name:    "timed and manual together",
			req:     logEntryRequest{WorkDate: "2025-06-01", StartTime: "08:00", EndTime: "09:00", ManualHours: "1"},
			wantErr: true,
		},
		{
			name:    "equal start and end",
			req:     logEntryRequest{WorkDate: "2025-06-01", StartTime: "08:00", EndTime: "08:00"},
			wantErr: true,
		},
		{
			name:    "missing duration entirely",
			req:     logEntryRequest{WorkDate: "2025-06-01"},
			wantErr: true,
		},
		{
			name:    "bad date",
			req:     logEntryRequest{WorkDate: "junk", ManualHours: "1"},
			wantErr: true,
		},
		{
			name:    "bad start time",
			req:     logEntryRequest{WorkDate: "2025-06-01", StartTime: "8am", EndTime: "12:00"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hours, start, end, _, err := tt.req.build()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("build() = %v, %v, %v, want error", hours, start, end)
				}
				return
			}
			if err != nil {
				t.Fatalf("build(): %v", err)
			}
			if hours != tt.wantHours {
				t.Errorf("hours = %v, want %v", hours, tt.wantHours)
			}
			if got := start.Format(time.RFC3339); got != tt.wantStart {
				t.Errorf("start = %s, want %s", got, tt.wantStart)
			}
			if got := end.Format(time.RFC3339); got != tt.wantEnd {
				t.Errorf("end = %s, want %s", got, tt.wantEnd)
			}
		})
	}
}

func TestCleanNote(t *testing.T) {
	long := make([]byte, maxNoteLen+1)
	for i := range long {
		long[i] = 'x'
	}

	if got, err := cleanNote("  muster  "); err != nil || got != "muster" {
		t.Errorf("cleanNote trim = %q, %v, want muster", got, err)
	}
	if got, err := cleanNote(""); err != nil || got != "" {
		t.Errorf("cleanNote empty = %q, %v", got, err)
	}
	if _, err := cleanNote(string(long)); err == nil {
		t.Error("cleanNote accepted a note over the limit")
	}
}
