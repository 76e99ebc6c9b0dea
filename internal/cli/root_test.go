package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestSetVersion(t *testing.T) {
	defer SetVersion(version, commit, date)
	SetVersion("1.0.0", "abc123", "2024-01-01")

	if version != "1.0.0" || commit != "abc123" || date != "2024-01-01" {
		t.Errorf("got %q %q %q", version, commit, date)
	}

	var out bytes.Buffer
	root := NewRootCommand(&out, &bytes.Buffer{})
	root.SetArgs([]string{"--version"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("--version failed: %v", err)
	}
	if !strings.Contains(out.String(), "atlaspack 1.0.0") || !strings.Contains(out.String(), "abc123") {
		t.Errorf("unexpected version output %q", out.String())
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := NewRootCommand(&bytes.Buffer{}, &bytes.Buffer{})
	for _, name := range []string{"pack", "plan", "inspect", "compare", "presets"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestVerboseAndQuietExclusive(t *testing.T) {
	root := NewRootCommand(&bytes.Buffer{}, &bytes.Buffer{})
	root.SetArgs([]string{"-v", "-q", "presets"})
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("expected error when combining --verbose and --quiet")
	}
}
