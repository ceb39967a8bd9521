package timespan

import (
	"errors"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Duration
	}{
		{name: "clock with seconds", input: "1:30:00", want: time.Hour + 30*time.Minute},
		{name: "clock without seconds", input: "2:15", want: 2*time.Hour + 15*time.Minute},
		{name: "clock padded parts", input: " 0 : 45 : 10 ", want: 45*time.Minute + 10*time.Second},
		{name: "minutes word", input: "45 minutes", want: 45 * time.Minute},
		{name: "min abbreviation", input: "30 MIN", want: 30 * time.Minute},
		{name: "hours word", input: "3 Hours", want: 3 * time.Hour},
		{name: "hr abbreviation", input: "2hr", want: 2 * time.Hour},
		{name: "minutes win over hours", input: "2 hours 30 minutes", want: 230 * time.Minute},
		{name: "bare integer is minutes", input: " 90 ", want: 90 * time.Minute},
		{name: "decimal hours concatenates digits", input: "1.5 hours", want: 15 * time.Hour},
		{name: "negative clock", input: "-0:45", want: -45 * time.Minute},
		{name: "negative clock with seconds", input: "-1:30:00", want: -90 * time.Minute},
		{name: "largest clock value", input: "2562047:47:16", want: 2562047*time.Hour + 47*time.Minute + 16*time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFailures(t *testing.T) {
	inputs := []string{
		"banana", "", "minutes", "an hour", "1:2:3:4", "a:b", "1.5", "-:30", "--1:30",
		"3000000 hours",
		"200000000000 minutes",
		"3000000:00",
		"99999999999999999999",
		"0:9223372036854775807",
		"2562047:47:17",
	}

	for _, input := range inputs {
		if _, err := Parse(input); !errors.Is(err, ErrParse) {
			t.Fatalf("Parse(%q) expected ErrParse, got %v", input, err)
		}
	}
}

func TestParseBestEffort(t *testing.T) {
	if got := ParseBestEffort("banana"); got != nil {
		t.Fatalf("expected nil for unparseable input, got %v", *got)
	}
	if got := ParseBestEffort("3000000 hours"); got != nil {
		t.Fatalf("expected nil for out of range input, got %v", *got)
	}
	if got := ParseBestEffort("   "); got != nil {
		t.Fatalf("expected nil for blank input, got %v", *got)
	}

	got := ParseBestEffort("45 minutes")
	if got == nil || *got != 45*time.Minute {
		t.Fatalf("expected 45m, got %v", got)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{in: 0, want: "0:00:00"},
		{in: 90 * time.Minute, want: "1:30:00"},
		{in: 27*time.Hour + 5*time.Second, want: "27:00:05"},
		{in: -45 * time.Minute, want: "-0:45:00"},
		{in: -(26*time.Hour + 3*time.Second), want: "-26:00:03"},
	}

	for _, tt := range tests {
		got := Format(tt.in)
		if got != tt.want {
			t.Fatalf("Format(%v) = %q, want %q", tt.in, got, tt.want)
		}
		back, err := Parse(got)
		if err != nil {
			t.Fatalf("Parse(Format(%v)) returned error: %v", tt.in, err)
		}
		if back != tt.in {
			t.Fatalf("round trip mismatch: %v -> %q -> %v", tt.in, got, back)
		}
	}
}
