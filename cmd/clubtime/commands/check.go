package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jholhewres/clubtime/pkg/clubtime/timeparse"
)

// newCheckCmd creates the `clubtime check` command.
func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <expression>",
		Short: "Parse an expression and apply the scheduling policy check",
		Long: `Resolve a time expression, then verify it falls inside the allowed
scheduling window (not too soon, not too far out). Parsing and policy are
separate: a moment can parse fine and still be rejected here.

Examples:
  clubtime check "in 2 minutes"
  clubtime check "tomorrow 8pm" --min-advance 30 --max-days 90`,
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

			minAdvance := cfg.Futureness.MinAdvanceMinutes
			if cmd.Flags().Changed("min-advance") {
				minAdvance, _ = cmd.Flags().GetInt("min-advance")
			}
			maxDays := cfg.Futureness.MaxAdvanceDays
			if cmd.Flags().Changed("max-days") {
				maxDays, _ = cmd.Flags().GetInt("max-days")
			}

			result := parser.Parse(args[0], cfg.Context())
			if !result.Valid {
				return fmt.Errorf("could not parse %q: %s", args[0], result.ErrDetail)
			}

			now := parser.Now()
			ok, reason := timeparse.ValidateEventTime(result.Moment, now, minAdvance, maxDays)
			if !ok {
				return fmt.Errorf("%s %s", result.Moment.Format("2006-01-02 15:04"), reason)
			}

			fmt.Printf("OK: %s (%s)\n",
				result.Moment.Format("Monday, January 2, 2006 at 3:04 PM"),
				timeparse.Countdown(result.Moment, now))
			return nil
		},
	}

	cmd.Flags().String("at", "", "resolve relative to this moment instead of now")
	cmd.Flags().Int("min-advance", 0, "minimum lead time in minutes (overrides config)")
	cmd.Flags().Int("max-days", 0, "maximum days in advance (overrides config)")

	return cmd
}
