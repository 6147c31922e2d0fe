package commands

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jholhewres/clubtime/pkg/clubtime/timeparse"
)

// newDurationCmd creates the `clubtime duration` command.
func newDurationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "duration <span>",
		Short: "Parse a human duration string",
		Long: `Parse a duration like "2 weeks, 3 days" or "90m" and show the span,
its end moment and the platform token for that moment.

Months count as 30.44 days and years as 365.25 days; these are fixed
approximations, not calendar arithmetic.

Examples:
  clubtime duration "2 weeks, 3 days"
  clubtime duration "1.5 hours" --from "2025-01-02 10:00"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			parser, err := cfg.NewParser()
			if err != nil {
				return err
			}

			start := time.Now()
			if from, _ := cmd.Flags().GetString("from"); from != "" {
				start, err = parseMoment(from)
				if err != nil {
					return fmt.Errorf("invalid --from value: %w", err)
				}
			}

			d, err := timeparse.ParseDuration(args[0])
			if err != nil {
				return err
			}

			end := d.EndOf(start)
			fmt.Printf("Span:  %s\n", d.Label)
			fmt.Printf("Ends:  %s (%s)\n", end.Format("Monday, January 2, 2006 at 3:04 PM"), humanize.Time(end))
			fmt.Printf("Token: %s\n", parser.Token(end, timeparse.StyleFull))
			return nil
		},
	}

	cmd.Flags().String("from", "", "start the span at this moment instead of now")

	return cmd
}
