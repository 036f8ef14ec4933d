package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, inspect and clear past applications",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List past applications, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				e, err := o.open(cmd, false)
				if err != nil {
					return err
				}
				defer e.Close()

				history := e.app(cmd.Context()).History()
				if e.cfg.Verbose {
					e.printer.PrintHistory(history)
					return nil
				}
				return e.printJSON(history)
			},
		},
		&cobra.Command{
			Use:   "show ID",
			Short: "Print one past application",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				e, err := o.open(cmd, false)
				if err != nil {
					return err
				}
				defer e.Close()

				entry, err := e.app(cmd.Context()).HistoryEntry(args[0])
				if err != nil {
					return err
				}
				if !e.cfg.Verbose {
					return e.printJSON(entry)
				}
				e.printer.PrintApplicationAnalysis(entry)
				e.printer.PrintOptimization(entry.Optimization)
				_, err = fmt.Fprintf(e.out, "\n%s\n", entry.CoverLetter)
				return err
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete every past application",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				e, err := o.open(cmd, false)
				if err != nil {
					return err
				}
				defer e.Close()

				e.app(cmd.Context()).ClearHistory(cmd.Context())
				_, err = fmt.Fprintln(e.out, "History cleared")
				return err
			},
		},
	)
	return cmd
}
