package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skilldex/skilldex/pkg/lint"
	"github.com/skilldex/skilldex/pkg/logger"
	"github.com/skilldex/skilldex/pkg/presenter"
)

type LintConfig struct {
	Watch        bool
	Format       string
	DebounceTime int
}

func NewLintConfig() *LintConfig {
	return &LintConfig{
		Format:       "text",
		DebounceTime: 500,
	}
}

// Validate validates the LintConfig and returns an error if invalid
func (c *LintConfig) Validate() error {
	if c.Format != "text" && c.Format != "json" {
		return errors.Errorf("invalid format: %s, must be text or json", c.Format)
	}
	if c.DebounceTime < 0 {
		return errors.Errorf("debounce time cannot be negative: %d", c.DebounceTime)
	}
	return nil
}

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Validate corpus structure",
	Long: `Validate the structural conventions of a skill corpus: frontmatter
completeness, duplicate names per category, dead relative links, and
code fence language tags.

Exits non-zero when any error-severity finding is reported.

Examples:
  skilldex lint
  skilldex lint ./skills ./plugins/extra/skills
  skilldex lint --watch
  skilldex lint --format json`,
	Run: func(cmd *cobra.Command, args []string) {
		config := getLintConfigFromFlags(cmd)
		if err := config.Validate(); err != nil {
			presenter.Error(err, "invalid lint configuration")
			os.Exit(1)
		}
		if len(args) > 0 {
			viper.Set("corpus.roots", args)
		}

		if config.Watch {
			if err := runLintWatch(cmd.Context(), config); err != nil {
				presenter.Error(err, "lint watch failed")
				os.Exit(1)
			}
			return
		}

		result, err := runLintOnce(config)
		if err != nil {
			presenter.Error(err, "lint failed")
			os.Exit(1)
		}
		if result.HasErrors() {
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewLintConfig()
	lintCmd.Flags().BoolP("watch", "w", defaults.Watch, "Re-lint when corpus files change")
	lintCmd.Flags().String("format", defaults.Format, "Output format (text, json)")
	lintCmd.Flags().Int("debounce", defaults.DebounceTime, "Watch debounce time in milliseconds")
	rootCmd.AddCommand(withTracing(lintCmd))
}

func getLintConfigFromFlags(cmd *cobra.Command) *LintConfig {
	config := NewLintConfig()
	if watch, err := cmd.Flags().GetBool("watch"); err == nil {
		config.Watch = watch
	}
	if format, err := cmd.Flags().GetString("format"); err == nil {
		config.Format = format
	}
	if debounce, err := cmd.Flags().GetInt("debounce"); err == nil {
		config.DebounceTime = debounce
	}
	return config
}

func newLinter() (*lint.Linter, error) {
	var lintConfig lint.Config
	if err := viper.UnmarshalKey("lint", &lintConfig); err != nil {
		return nil, errors.Wrap(err, "failed to decode lint configuration")
	}
	return lint.New(lintConfig), nil
}

func runLintOnce(config *LintConfig) (*lint.Result, error) {
	c, err := loadCorpus()
	if err != nil {
		return nil, err
	}

	linter, err := newLinter()
	if err != nil {
		return nil, err
	}

	result := linter.Run(c)
	if err := printLintResult(result, config.Format, c.Len()); err != nil {
		return nil, err
	}
	return result, nil
}

func printLintResult(result *lint.Result, format string, documents int) error {
	if format == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	var errorCount, warningCount int
	for _, finding := range result.Findings {
		switch finding.Severity {
		case lint.SeverityError:
			errorCount++
			presenter.Info(finding.String())
		case lint.SeverityWarning:
			warningCount++
			presenter.Info(finding.String())
		}
	}

	presenter.Separator()
	summary := fmt.Sprintf("%d document(s) checked: %d error(s), %d warning(s)",
		documents, errorCount, warningCount)
	if errorCount > 0 {
		presenter.Warning(summary)
	} else {
		presenter.Success(summary)
	}
	return nil
}

// runLintWatch re-runs the linter whenever a file under a corpus root
// changes, debouncing bursts of filesystem events.
func runLintWatch(ctx context.Context, config *LintConfig) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	roots := viper.GetStringSlice("corpus.roots")
	if len(roots) == 0 {
		roots = []string{"./skills"}
	}
	for _, root := range roots {
		if err := watchRecursive(watcher, root); err != nil {
			return err
		}
	}

	if _, err := runLintOnce(config); err != nil {
		return err
	}
	presenter.Info("Watching for changes. Press Ctrl+C to stop.")

	debounce := time.Duration(config.DebounceTime) * time.Millisecond
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(event) {
				continue
			}
			// New directories must be added to the watch set
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watchRecursive(watcher, event.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				timer.Reset(debounce)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			presenter.Separator()
			if _, err := runLintOnce(config); err != nil {
				logger.G(ctx).WithError(err).Error("lint run failed")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.G(ctx).WithError(err).Warn("file watcher error")
		}
	}
}

func watchRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		base := filepath.Base(path)
		if base == ".git" || base == "node_modules" || base == "vendor" {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func relevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if strings.HasSuffix(event.Name, ".md") {
		return true
	}
	info, err := os.Stat(event.Name)
	return err == nil && info.IsDir()
}
