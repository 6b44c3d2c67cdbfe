package version

import (
	"errors"
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	_ = GitCommit
	_ = BuildDate
}

func TestBanner_KeepsSegments(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	orig := Version
	t.Cleanup(func() { Version = orig })

	cases := map[string]string{
		"0.1.0-dev":            "0.1.0-dev",
		"1.2.3":                "1.2.3",
		"1.2.3-rc.1+build.123": "1.2.3-rc.1+build.123",
		"not-a-version":        "not-a-version",
	}
	for in, want := range cases {
		Version = in
		if got := Banner(); got != want {
			t.Errorf("Banner() with Version=%q = %q, want %q", in, got, want)
		}
	}
}

func TestCheckProducer(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	tests := []struct {
		version  string
		producer string
		wantErr  bool
	}{
		{"0.1.0-dev", "", false},
		{"0.1.0-dev", "lowparse", false},
		{"0.1.0-dev", "lowparse 0.1.4", false},
		{"0.1.0-dev", "0.1.0", false},
		{"0.1.0-dev", "lowparse 0.2.0", true},
		{"0.1.0-dev", "lowparse 1.0.0", true},
		{"1.4.0", "lowparse 1.0.2", false},
		{"1.4.0", "lowparse 2.0.0", true},
	}
	for _, tt := range tests {
		Version = tt.version
		err := CheckProducer(tt.producer)
		if (err != nil) != tt.wantErr {
			t.Errorf("CheckProducer(%q) with Version=%q: err = %v, wantErr %v", tt.producer, tt.version, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrProducer) {
			t.Errorf("CheckProducer(%q): error %v does not wrap ErrProducer", tt.producer, err)
		}
	}
}

func BenchmarkBanner(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Banner()
	}
}
