package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jholhewres/clubtime/pkg/clubtime/timeparse"
)

// newParseCmd creates the `clubtime parse` command.
func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <expression>",
		Short: "Resolve a free-text time expression",
		Long: `Resolve a natural-language time expression into a concrete timestamp.

Examples:
  clubtime parse "tomorrow 8pm"
  clubtime parse "due by march 15" --context dues
  clubtime parse "next friday anytime" --at "2025-01-02 10:00"
  clubtime parse "in 2 hours" --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			parser, err := newParser(cmd, cfg)
			if err != nil {
				return err
			}

			ctx := cfg.Context()
			if flag, _ := cmd.Flags().GetString("context"); flag != "" {
				ctx = timeparse.Context(flag)
			}

			result := parser.Parse(args[0], ctx)
			slog.Debug("parsed", "source", result.Source, "confidence", result.Confidence)

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printResultJSON(result)
			}

			if !result.Valid {
				return fmt.Errorf("could not parse %q: %s", args[0], result.ErrDetail)
			}

			fmt.Printf("Moment:     %s\n", result.Moment.Format("Monday, January 2, 2006 at 3:04 PM"))
			fmt.Printf("Token:      %s\n", parser.Token(result.Moment, timeparse.StyleFull))
			fmt.Printf("Relative:   %s\n", humanize.Time(result.Moment))
			fmt.Printf("Source:     %s\n", result.Source)
			fmt.Printf("Confidence: %.2f\n", result.Confidence)
			return nil
		},
	}

	cmd.Flags().String("context", "", "parsing context: "+contextNames)
	cmd.Flags().String("at", "", "resolve relative to this moment instead of now")
	cmd.Flags().Bool("json", false, "emit the full result as JSON")

	return cmd
}

// printResultJSON writes the result to stdout as indented JSON.
func printResultJSON(result timeparse.Result) error {
	out := map[string]any{
		"valid":      result.Valid,
		"source":     string(result.Source),
		"confidence": result.Confidence,
		"input":      result.Input,
	}
	if result.Valid {
		out["moment"] = result.Moment.Format("2006-01-02 15:04:05")
		out["unix"] = result.Unix()
	} else {
		out["error"] = result.ErrDetail
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// contextNames lists the accepted --context values for completion.
var contextNames = strings.Join([]string{
	string(timeparse.ContextGeneral),
	string(timeparse.ContextEvent),
	string(timeparse.ContextDues),
	string(timeparse.ContextReminder),
}, ", ")
