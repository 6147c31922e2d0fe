package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jholhewres/clubtime/pkg/clubtime/timeparse"
)

// styleLabels describes each token style in display order.
var styleLabels = []struct {
	style timeparse.Style
	label string
}{
	{timeparse.StyleFull, "Full date & time"},
	{timeparse.StyleFullShort, "Short date & time"},
	{timeparse.StyleDateLong, "Date (long)"},
	{timeparse.StyleDateShort, "Date (short)"},
	{timeparse.StyleTimeLong, "Time with seconds"},
	{timeparse.StyleTimeShort, "Time"},
	{timeparse.StyleRelative, "Relative countdown"},
}

// newStylesCmd creates the `clubtime styles` command.
func newStylesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "styles <expression>",
		Short: "Show every token style for a resolved moment",
		Long: `Resolve a time expression and render its platform token in all seven
styles, for picking a preferred display format.

Example:
  clubtime styles "march 15 7pm"`,
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

			result := parser.Parse(args[0], cfg.Context())
			if !result.Valid {
				return fmt.Errorf("could not parse %q: %s", args[0], result.ErrDetail)
			}

			tokens := parser.AllStyles(result.Moment)
			for _, entry := range styleLabels {
				fmt.Printf("%-18s %s\n", entry.label+":", tokens[entry.style])
			}
			return nil
		},
	}

	cmd.Flags().String("at", "", "resolve relative to this moment instead of now")

	return cmd
}
