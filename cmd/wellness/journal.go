package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"wellness-tracker/internal/app"
	"wellness-tracker/internal/coach"

	"github.com/spf13/cobra"
)

func (c *cli) planCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the meal plan with the saved notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			days, err := a.Agenda(cmd.Context())
			if err != nil {
				return err
			}
			return writePlan(cmd.OutOrStdout(), days, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func writePlan(w io.Writer, days []app.DayView, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(days)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DAY\tPHASE\tRECIPES\tNOTE")
	for _, d := range days {
		recipes := strings.Join(append(append([]string{}, d.Juices...), d.Meals...), ", ")
		if recipes == "" {
			recipes = "(" + d.Kind + ")"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", d.Day, d.Phase, recipes, d.Note)
	}
	return tw.Flush()
}

// dayArg parses a day number and checks it against the plan.
func dayArg(a *app.App, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid day %q: %w", arg, err)
	}
	if _, err := a.Plan.Day(n); err != nil {
		return 0, err
	}
	return n, nil
}

func (c *cli) noteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "note <day> <text>",
		Short: "Save the note for a day",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := dayArg(a, args[0])
			if err != nil {
				return err
			}
			if _, err := a.Journal.SetNote(cmd.Context(), n, strings.Join(args[1:], " ")); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Note saved for day %d.\n", n)
			return nil
		},
	}
}

func (c *cli) coachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coach <day>",
		Short: "Ask the Smart Coach about the note of a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := dayArg(a, args[0])
			if err != nil {
				return err
			}
			rec, err := a.Coach.AdviseStored(cmd.Context(), n)
			if errors.Is(err, coach.ErrEmptyNote) {
				return fmt.Errorf("day %d: %w (try: wellness note %d <text>)", n, err, n)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rec.CoachText)
			return nil
		},
	}
}
