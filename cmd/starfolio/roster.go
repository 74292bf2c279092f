package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/starfolio/roster"
)

var rosterCmd = &cobra.Command{
	Use:   "roster [file]",
	Short: "Validate a roster and print its summary",
	Long:  `Validates the given roster file, or the built-in roster when no file is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := roster.Default()
		if len(args) == 1 {
			var err error
			if r, err = roster.Load(args[0]); err != nil {
				return err
			}
		}
		return printRoster(cmd.OutOrStdout(), r)
	},
}

func init() {
	rootCmd.AddCommand(rosterCmd)
}

func printRoster(w io.Writer, r *roster.Roster) error {
	fmt.Fprintf(w, "%s\n", r.Title)
	fmt.Fprintf(w, "  mentors   %d\n", len(r.Mentors))
	for _, m := range r.Mentors {
		fmt.Fprintf(w, "    %-24s %-6s %s\n", m.Name, m.Side, m.Role)
	}
	fmt.Fprintf(w, "  members   %d\n", len(r.Members))
	for k, batch := range r.Batches() {
		fmt.Fprintf(w, "    batch %d  %d members\n", k, len(batch))
	}
	fmt.Fprintf(w, "  galaxies  %d\n", len(r.Galaxies))
	_, err := fmt.Fprintf(w, "  closing   %d lines\n", len(r.Closing))
	return err
}
