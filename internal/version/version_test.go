package version

import (
	"strings"
	"testing"
)

func TestVersionDefaults(t *testing.T) {
	if Version == "" {
		t.Fatal("Version must have a default value")
	}
	if !strings.Contains(Version, "0.1.0") {
		t.Fatalf("expected default version to contain 0.1.0, got %q", Version)
	}
}

func TestVersionOverride(t *testing.T) {
	// имитация -ldflags при сборке релиза
	orig := Version
	defer func() { Version = orig }()

	Version = "1.2.3"
	if Version != "1.2.3" {
		t.Fatalf("Version = %q, want %q", Version, "1.2.3")
	}
}
