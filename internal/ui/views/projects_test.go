package views

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"grün", 4, "grün"},
		{"Qualitätsprüfung", 8, "Qualitä…"},
		{"Übersicht", 1, "Ü"},
		{"release engineering", 10, "release e…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
