package buildinfo

import "testing"

func TestStrings(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)

	tests := []struct {
		version, commit, date string
		short, full           string
	}{
		{"dev", "unknown", "unknown", "dev", "dev"},
		{"dev", "abc123", "unknown", "abc123", "abc123"},
		{"v0.3.1", "abc123", "unknown", "v0.3.1", "v0.3.1 (abc123)"},
		{"v0.3.1", "abc123", "2026-01-02", "v0.3.1", "v0.3.1 (abc123, 2026-01-02)"},
	}
	for _, tt := range tests {
		Version, Commit, Date = tt.version, tt.commit, tt.date
		if got := Short(); got != tt.short {
			t.Errorf("Short() = %q, want %q", got, tt.short)
		}
		if got := String(); got != tt.full {
			t.Errorf("String() = %q, want %q", got, tt.full)
		}
	}
}
