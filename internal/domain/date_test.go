package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2024-03-01", want: "2024-03-01"},
		{in: "2024-03-01T23:15:00Z", want: "2024-03-01"},
		{in: "2024-03-01T10:00:00.123+02:00", want: "2024-03-01"},
		{in: "2024-03-01 08:00:00", want: "2024-03-01"},
		{in: "  2024-12-31 ", want: "2024-12-31"},
		{in: "", want: ""},
		{in: "03/01/2024", wantErr: true},
		{in: "2024-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidValue) {
					t.Errorf("ParseDate(%q) error = %v, want ErrInvalidValue", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) error = %v", tt.in, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseDate(%q) = %q, want %q", tt.in, got.String(), tt.want)
			}
		})
	}
}

func TestDate_Before(t *testing.T) {
	a := MustParseDate("2024-03-01")
	b := MustParseDate("2024-03-02")

	if !a.Before(b) {
		t.Error("2024-03-01 should be before 2024-03-02")
	}
	if b.Before(a) || a.Before(a) {
		t.Error("Before() should be strict")
	}
}

func TestDate_JSON(t *testing.T) {
	d := MustParseDate("2024-03-01")
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `"2024-03-01"` {
		t.Errorf("Marshal() = %s", data)
	}

	zero, _ := json.Marshal(Date{})
	if string(zero) != "null" {
		t.Errorf("Marshal(zero) = %s, want null", zero)
	}
}
