package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"strata/internal/config"
	"strata/internal/diag"
	"strata/internal/driver"
)

// errAnalysisFailed signals exit code 1 without an extra error line;
// the diagnostics themselves are the message.
var errAnalysisFailed = errors.New("analysis failed")

var checkCmd = &cobra.Command{
	Use:   "check [path...]",
	Short: "Analyze JavaScript files and report diagnostics",
	Long: `Analyze the given files or directories (default: the current directory).
Directories are walked for *.js files and analyzed in parallel.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	jobs, _ := cmd.Flags().GetInt("jobs")
	cache := openCache(cmd)

	files, errorCount, warningCount := 0, 0, 0
	failed := false
	for _, arg := range args {
		units, err := analyzePath(cmd, arg, cfg, cache, jobs)
		if err != nil {
			return err
		}
		for _, u := range units {
			files++
			renderUnit(cmd, u)
			for _, d := range u.Bag.Items() {
				switch d.Severity {
				case diag.SevError:
					errorCount++
				case diag.SevWarning:
					warningCount++
				}
			}
			if u.Failed(cfg) {
				failed = true
			}
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d file(s) analyzed, %d error(s), %d warning(s)\n",
		files, errorCount, warningCount)
	if failed {
		return errAnalysisFailed
	}
	return nil
}

func analyzePath(cmd *cobra.Command, path string, cfg config.Config, cache *driver.DiskCache, jobs int) ([]*driver.Unit, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return driver.AnalyzeDir(cmd.Context(), path, cfg, cache, jobs)
	}
	c := driver.NewContext(cfg)
	c.Cache = cache
	u, err := c.AnalyzeFile(path)
	if err != nil {
		return nil, err
	}
	return []*driver.Unit{u}, nil
}

func renderUnit(cmd *cobra.Command, u *driver.Unit) {
	if u.Bag.Len() == 0 {
		return
	}
	r := diag.NewRenderer(cmd.OutOrStdout(), u.Files)
	r.RenderBag(u.Bag)
}

// loadConfig resolves the manifest: an explicit --config wins, else the
// search walks upward from the first target.
func loadConfig(cmd *cobra.Command, target string) (config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return config.Load(path)
	}
	start := target
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		start = filepath.Dir(target)
	}
	return config.LoadFrom(start)
}

func openCache(cmd *cobra.Command) *driver.DiskCache {
	if off, _ := cmd.Flags().GetBool("no-cache"); off {
		return nil
	}
	cache, err := driver.OpenDiskCache("strata")
	if err != nil {
		// Analysis works without a cache; do not fail the run.
		return nil
	}
	return cache
}
