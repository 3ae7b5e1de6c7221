package main

import (
	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report diagnostics without writing any file",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.compile(cmd.Context(), args)
			if err != nil {
				return err
			}
			w := cmd.ErrOrStderr()
			if format == "json" {
				w = cmd.OutOrStdout()
			}
			if err := a.report(w, res, format); err != nil {
				return err
			}
			return res.Err()
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	return cmd
}
