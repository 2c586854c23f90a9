package groups

import (
	"testing"
	"time"
)

func TestParseBudget(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantNil bool
		wantErr bool
	}{
		{in: "", wantNil: true},
		{in: "  ", wantNil: true},
		{in: "25", want: 2500},
		{in: "$25.5", want: 2550},
		{in: "19.99", want: 1999},
		{in: "0", want: 0},
		{in: "-1", wantErr: true},
		{in: "ten", wantErr: true},
		{in: "NaN", wantErr: true},
		{in: "1e9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, msg := parseBudget(tt.in)
			if tt.wantErr {
				if msg == "" {
					t.Errorf("parseBudget(%q): expected an error message", tt.in)
				}
				return
			}
			if msg != "" {
				t.Fatalf("parseBudget(%q): unexpected error %q", tt.in, msg)
			}
			if tt.wantNil {
				if got != nil {
					t.Errorf("parseBudget(%q) = %d, want nil", tt.in, *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("parseBudget(%q) = %v, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseEventDate(t *testing.T) {
	got, msg := parseEventDate(" 2030-12-20 ")
	if msg != "" {
		t.Fatalf("unexpected error %q", msg)
	}
	if want := time.Date(2030, 12, 20, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	for _, in := range []string{"", "12/20/2030", "2030-13-01"} {
		if _, msg := parseEventDate(in); msg == "" {
			t.Errorf("parseEventDate(%q): expected an error message", in)
		}
	}
}

func TestFormatBudget(t *testing.T) {
	cents := int64(1205)
	if got := formatBudget(&cents); got != "12.05" {
		t.Errorf("formatBudget(1205) = %q, want %q", got, "12.05")
	}
	if got := formatBudget(nil); got != "" {
		t.Errorf("formatBudget(nil) = %q, want empty", got)
	}
}
