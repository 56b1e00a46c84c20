package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"unimoji/internal/config"
	"unimoji/internal/deps"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}
	configCmd.AddCommand(newConfigValidateCommand(ctx), newConfigInitCommand())
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{skipConfigLoad: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := initTarget(targetPath)
			if err != nil {
				return err
			}
			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("check config path: %w", err)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Run `unimoji config validate` to check uni, convert and the icon cache.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func initTarget(flagValue string) (string, error) {
	target := strings.TrimSpace(flagValue)
	if target == "" {
		path, err := config.DefaultConfigPath()
		if err != nil {
			return "", fmt.Errorf("determine default config path: %w", err)
		}
		return path, nil
	}
	path, err := config.ExpandPath(target)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return path, nil
}

// newConfigValidateCommand checks that the file parses and that the
// environment it describes can actually serve lookups and build icons.
func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration, external programs and the icon cache",
		Annotations: map[string]string{skipConfigLoad: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			source := path
			if !exists {
				source = path + " (not found, using defaults)"
			}
			fmt.Fprintf(out, "Config: %s\n", source)

			report := checkEnvironment(cfg)
			writeEnvironmentReport(out, report)
			if problems := report.problems(); len(problems) > 0 {
				return fmt.Errorf("configuration not usable: %s", strings.Join(problems, "; "))
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

type environmentReport struct {
	binaries     []deps.Status
	cacheDir     string
	cacheErr     error
	fallbackIcon string
	workers      int
}

func checkEnvironment(cfg *config.Config) environmentReport {
	return environmentReport{
		binaries:     deps.CheckBinaries(deps.Requirements(cfg.Oracle.UniBinary, cfg.Oracle.ConvertBinary)),
		cacheDir:     cfg.Paths.CacheDir,
		cacheErr:     checkWritable(cfg.Paths.CacheDir),
		fallbackIcon: cfg.IconPath(cfg.Icons.FallbackGlyph),
		workers:      cfg.WorkerCount(),
	}
}

// checkWritable creates the cache directory if needed and round-trips a
// hidden scratch file through it.
func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".write-check-*")
	if err != nil {
		return err
	}
	name := f.Name()
	closeErr := f.Close()
	removeErr := os.Remove(name)
	return errors.Join(closeErr, removeErr)
}

func (r environmentReport) problems() []string {
	var out []string
	for _, status := range r.binaries {
		if !status.Available && !status.Optional {
			out = append(out, fmt.Sprintf("%s: %s", status.Name, status.Detail))
		}
	}
	if r.cacheErr != nil {
		out = append(out, fmt.Sprintf("icon cache %s is not writable", filepath.Clean(r.cacheDir)))
	}
	return out
}

func writeEnvironmentReport(out io.Writer, r environmentReport) {
	rows := make([][]string, 0, len(r.binaries)+1)
	for _, status := range r.binaries {
		detail := status.Command
		if !status.Available {
			detail = status.Detail
			if status.Optional {
				detail += " (icons will not be generated)"
			}
		}
		rows = append(rows, []string{status.Name, yesNo(status.Available), detail})
	}
	cacheDetail := r.cacheDir
	if r.cacheErr != nil {
		cacheDetail = fmt.Sprintf("%s: %v", r.cacheDir, r.cacheErr)
	}
	rows = append(rows, []string{"icon cache", yesNo(r.cacheErr == nil), cacheDetail})
	fmt.Fprintln(out, renderTable(out, []string{"Check", "OK", "Detail"}, rows, nil))
	fmt.Fprintf(out, "Fallback icon: %s\n", r.fallbackIcon)
	fmt.Fprintf(out, "Render workers: %d\n", r.workers)
}
