package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/urlstore/internal/config"
	"github.com/vango-dev/urlstore/internal/errors"
	"github.com/vango-dev/urlstore/pkg/urlstore"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globals holds the persistent flags shared by every command.
type globals struct {
	configPath string
	logLevel   string
	noColor    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "urlstore",
		Short: "Keep application state in the URL fragment",
		Long: `urlstore encodes application state into the fragment of a URL
and decodes it back.

Keys declared in the configuration are typed:

  • boolean keys are written as yes/no
  • number keys are parsed as numbers
  • JSON keys hold a JSON document
  • raw JSON keys hold JSON that is stored as-is

Configuration is read from urlstore.json or urlstore.yaml in the
working directory or a parent, or from --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if g.noColor {
				errors.DisableColors()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Path to urlstore.json or urlstore.yaml")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		decodeCmd(g),
		encodeCmd(g),
		setCmd(g),
		migrateCmd(g),
		serveCmd(g),
		versionCmd(),
	)

	return rootCmd
}

// loadConfig reads --config, or the nearest configuration file above the
// working directory. Without either, the zero schema is used.
func (g *globals) loadConfig() (*config.Config, error) {
	if g.configPath != "" {
		return config.LoadFile(g.configPath)
	}
	cfg, err := config.LoadFromWorkingDir()
	if errors.HasCode(err, "E121") {
		return config.New(), nil
	}
	return cfg, err
}

func (g *globals) logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(g.logLevel)); err != nil {
		return nil, errors.New("E140").
			WithField("log-level").
			WithInput(g.logLevel, -1).
			WithSuggestion("Use debug, info, warn or error")
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// openStore builds a Store over an in-memory copy of rawURL.
func (g *globals) openStore(cmd *cobra.Command, rawURL string, extra ...urlstore.Option) (*urlstore.Store, *urlstore.MemoryLocation, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	opts, err := cfg.StoreOptions()
	if err != nil {
		return nil, nil, err
	}
	logger, err := g.logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	opts = append(opts, urlstore.WithLogger(logger))
	opts = append(opts, extra...)

	loc := urlstore.NewMemoryLocation(rawURL)
	store, err := urlstore.New(loc, opts...)
	if err != nil {
		return nil, nil, err
	}
	return store, loc, nil
}

// asFragment accepts a fragment with or without its leading '#', or a
// full URL.
func asFragment(s string) string {
	if s == "" || s[0] == '#' || containsScheme(s) {
		return s
	}
	return "#" + s
}

func containsScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == ':':
			return i > 0 && i+2 < len(s) && s[i+1] == '/' && s[i+2] == '/'
		case c == '#', c == '?', c == '/', c == '=', c == '&':
			return false
		}
	}
	return false
}

func printLine(cmd *cobra.Command, s string) {
	fmt.Fprintln(cmd.OutOrStdout(), s)
}
