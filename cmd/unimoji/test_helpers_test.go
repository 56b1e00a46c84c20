package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"unimoji/internal/config"
	"unimoji/internal/testsupport"
)

const stubUni = `case "$*" in
  *"-format=%(emoji)"*) echo '[{"emoji":"👍"},{"emoji":"🎉"}]'; exit 0 ;;
esac
for last; do :; done
case "$last" in
  nothing) echo "uni: no matches"; exit 1 ;;
  broken) echo "uni: database corrupt" >&2; exit 2 ;;
esac
echo '[{"name":"thumbs up","group":"People & Body","emoji":"👍","cldr_full":"thumbs up | +1"},{"name":"party popper","group":"Activities","emoji":"🎉","cldr_full":"party popper"}]'
`

const stubConvert = `for last; do :; done
printf 'png' > "$last"
`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t,
		testsupport.WithScript("uni", stubUni),
		testsupport.WithScript("convert", stubConvert),
	)
	t.Setenv("HOME", filepath.Join(testsupport.BaseDir(cfg), "home"))

	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
