package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/MrUltraEnder/pagelang"
	"github.com/MrUltraEnder/pagelang/internal/config"
	"github.com/MrUltraEnder/pagelang/internal/logging"
)

// app carries what every command shares.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	quiet      bool

	cfg    *config.Config
	logger *slog.Logger
	redis  *redis.Client
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           pagelang.Name,
		Short:         "Switch HTML pages between two languages",
		Long:          `pagelang extracts the visible text of HTML pages, translates it in batches through Google Translate or OpenAI while keeping technical terms intact, and remembers the chosen language.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.load()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (default: $CONFIG_PATH or ./pagelang.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "Suppress progress output")

	root.AddCommand(
		newTranslateCmd(a),
		newExtractCmd(a),
		newDetectCmd(a),
		newDiffCmd(a),
		newServeCmd(a),
		newStateCmd(a),
		newCacheCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) load() error {
	if a.configPath != "" {
		if err := os.Setenv("CONFIG_PATH", a.configPath); err != nil {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.Log.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	if a.quiet && a.logLevel == "" {
		level = "error"
	}
	a.logger = logging.NewWithWriter(a.stderr, level, cfg.Log.Format)
	return nil
}

func (a *app) close() {
	if a.redis != nil {
		a.redis.Close()
	}
}

// progress prints to stderr unless --quiet.
func (a *app) progress(format string, args ...any) {
	if !a.quiet {
		fmt.Fprintf(a.stderr, format, args...)
	}
}

// readInput reads the named file, or stdin when path is empty or "-".
func (a *app) readInput(path string) (content, name string, err error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	data, err := os.ReadFile(path) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return "", "", fmt.Errorf("reading file: %w", err)
	}
	return string(data), filepath.Base(path), nil
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

func splitTerms(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
