//go:build !integration

package usecase

import (
	"strings"
	"testing"
	"time"
)

func TestFormatBytes(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.00 KB"},
		{50 << 20, "50.00 MB"},
		{3 << 30, "3.00 GB"},
		{1536, "1.50 KB"},
	}
	for _, c := range cases {
		if got := formatBytes(c.in); got != c.want {
			t.Errorf("formatBytes(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	t.Parallel()
	if got := progressBar(0.5, 10); strings.Count(got, "█") != 5 || strings.Count(got, "░") != 5 {
		t.Errorf("half bar wrong: %q", got)
	}
	if got := progressBar(-1, 10); strings.Count(got, "█") != 0 {
		t.Errorf("negative progress should clamp to empty: %q", got)
	}
	if got := progressBar(2, 10); strings.Count(got, "░") != 0 {
		t.Errorf("overshoot should clamp to full: %q", got)
	}
}

func TestFormatETA(t *testing.T) {
	t.Parallel()
	if got := formatETA(45 * time.Second); got != "45s" {
		t.Errorf("formatETA(45s) = %q", got)
	}
	if got := formatETA(90 * time.Second); got != "1m30s" {
		t.Errorf("formatETA(90s) = %q", got)
	}
	if got := formatETA(2*time.Hour + 5*time.Minute + 9*time.Second); got != "2h5m9s" {
		t.Errorf("formatETA(2h5m9s) = %q", got)
	}
	if got := formatETA(-time.Second); got != "0s" {
		t.Errorf("negative duration should clamp: %q", got)
	}
}
