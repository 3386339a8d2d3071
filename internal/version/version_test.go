package version

import (
	"strings"
	"testing"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	if info.Version != Version {
		t.Errorf("Version = %q, want %q", info.Version, Version)
	}
	if info.GoVersion == "" {
		t.Error("GoVersion is empty")
	}
	if !strings.Contains(info.Platform, "/") {
		t.Errorf("Platform = %q, want os/arch", info.Platform)
	}
}

func TestString_ShortensCommit(t *testing.T) {
	info := Info{
		Version:   "1.2.3",
		Commit:    "0123456789abcdef",
		Date:      "2026-01-01",
		GoVersion: "go1.24",
		Platform:  "linux/amd64",
	}
	s := info.String()
	if !strings.Contains(s, "01234567") {
		t.Errorf("String() = %q, want 8-char commit", s)
	}
	if strings.Contains(s, "0123456789abcdef") {
		t.Errorf("String() = %q, commit not shortened", s)
	}
}
