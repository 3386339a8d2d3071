package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCommandRegistration(t *testing.T) {
	want := []string{"scope", "plan", "execute", "run", "serve", "version"}
	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestUsageError(t *testing.T) {
	err := usageErrorf("bad value %q", "x")
	if !IsUsageError(err) {
		t.Error("IsUsageError = false for usage error")
	}
	if !strings.Contains(err.Error(), `bad value "x"`) {
		t.Errorf("message = %q", err.Error())
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if !IsUsageError(wrapped) {
		t.Error("IsUsageError = false for wrapped usage error")
	}

	if IsUsageError(errors.New("plain")) {
		t.Error("IsUsageError = true for plain error")
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "triage") {
		t.Errorf("output = %q", out.String())
	}
}

func TestComplexityLabels(t *testing.T) {
	tests := []struct {
		name       string
		existing   []string
		complexity int
		want       []string
	}{
		{"adds label", []string{"bug"}, 7, []string{"bug", "complexity/7"}},
		{"replaces previous", []string{"bug", "complexity/3"}, 9, []string{"bug", "complexity/9"}},
		{"empty set", nil, 1, []string{"complexity/1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := complexityLabels(tt.existing, tt.complexity)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestScopeRejectsBadIssueNumber(t *testing.T) {
	for _, arg := range []string{"abc", "0", "-3"} {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&out)
		rootCmd.SetArgs([]string{"scope", arg})

		err := rootCmd.Execute()
		if !IsUsageError(err) {
			t.Errorf("scope %s: err = %v, want usage error", arg, err)
		}
	}
	rootCmd.SetArgs(nil)
}
