package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"wellness-tracker/internal/shopping"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

type groceriesOptions struct {
	sortByName bool
	save       bool
	asJSON     bool
}

func (c *cli) groceriesCmd() *cobra.Command {
	var opts groceriesOptions

	cmd := &cobra.Command{
		Use:   "groceries",
		Short: "Print the estimated grocery list for the whole plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			res, id, err := a.GroceryList(cmd.Context(), opts.save)
			if err != nil {
				return err
			}
			return writeGroceries(cmd.OutOrStdout(), res, id, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.sortByName, "sort", false, "sort items by name")
	cmd.Flags().BoolVar(&opts.save, "save", false, "store the list as a snapshot")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print JSON")
	return cmd
}

func writeGroceries(w io.Writer, res shopping.Result, snapshotID int64, opts groceriesOptions) error {
	items := res.Items
	if opts.sortByName {
		items = res.SortedByName()
	}

	if opts.asJSON {
		if items == nil {
			items = []shopping.LineItem{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Items      []shopping.LineItem `json:"items"`
			Advisories []shopping.Advisory `json:"advisories,omitempty"`
			Total      shopping.Cost       `json:"total"`
			SnapshotID int64               `json:"snapshotId,omitempty"`
		}{items, res.Advisories, res.Total(), snapshotID})
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tQTY\tUNIT\tEST. COST")
	for _, item := range items {
		cost := "-"
		if item.EstCost != nil {
			cost = "$" + item.EstCost.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", item.Name, humanize.Ftoa(item.Qty), item.Unit, cost)
	}
	fmt.Fprintf(tw, "TOTAL\t\t\t$%s\n", res.Total())
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, adv := range res.Advisories {
		fmt.Fprintf(w, "note: %s\n", adv)
	}
	if snapshotID != 0 {
		fmt.Fprintf(w, "saved as list #%d\n", snapshotID)
	}
	return nil
}
