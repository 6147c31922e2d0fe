// Package commands implements the clubtime CLI commands using cobra.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jholhewres/clubtime/pkg/clubtime/config"
	"github.com/jholhewres/clubtime/pkg/clubtime/timeparse"
)

// NewRootCmd creates the root CLI command with all subcommands registered.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "clubtime",
		Short: "clubtime - natural-language time resolver for community bots",
		Long: `clubtime resolves free-text time expressions into concrete timestamps
and platform timestamp tokens, and parses human duration strings.

Examples:
  clubtime parse "next friday 8pm"
  clubtime parse "due by tomorrow" --context dues
  clubtime duration "2 weeks, 3 days"
  clubtime styles "march 15 7pm"
  clubtime check "in 2 minutes" --min-advance 5`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}

	rootCmd.AddCommand(
		newParseCmd(),
		newDurationCmd(),
		newStylesCmd(),
		newCheckCmd(),
		newCompletionCmd(),
	)

	rootCmd.PersistentFlags().StringP("config", "c", "", "path to the configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	return rootCmd
}

// loadConfig reads the config file named by the persistent flag.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if path != "" {
		slog.Debug("config loaded", "path", path)
	}
	return cfg, nil
}

// newParser builds a parser from config, optionally pinning its clock to
// the --at flag value.
func newParser(cmd *cobra.Command, cfg config.Config) (*timeparse.Parser, error) {
	parser, err := cfg.NewParser()
	if err != nil {
		return nil, err
	}
	if at, _ := cmd.Flags().GetString("at"); at != "" {
		pinned, err := parseMoment(at)
		if err != nil {
			return nil, fmt.Errorf("invalid --at value: %w", err)
		}
		parser.Now = func() time.Time { return pinned }
		slog.Debug("clock pinned", "now", pinned)
	}
	return parser, nil
}

// parseMoment reads a fixed moment flag in RFC 3339 or "YYYY-MM-DD HH:MM".
func parseMoment(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("expected RFC 3339 or %q", "2006-01-02 15:04")
}
