package deps

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected blank command status: %#v", results[2])
	}
}

func TestCheckBinariesResolvesFromPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	binDir := t.TempDir()
	uniPath := filepath.Join(binDir, "uni")
	if err := os.WriteFile(uniPath, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	t.Setenv("PATH", binDir)

	results := CheckBinaries(Requirements("uni", "convert"))
	if !results[0].Available || results[0].Command != uniPath {
		t.Fatalf("expected uni resolved to %s, got %#v", uniPath, results[0])
	}
	if results[1].Available {
		t.Fatalf("expected convert to be missing, got %#v", results[1])
	}
	if !results[1].Optional {
		t.Fatal("convert should be optional")
	}
}
