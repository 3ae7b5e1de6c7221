package main

import (
	"github.com/spf13/cobra"
)

func newGenerateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "generate [paths...]",
		Short: "Compile the schema and write the generated package",
		Long: `Compile every .graphql file under the given paths, or the schema paths of the
project file, and write the generated package. Types with errors are not
generated; the command exits with status 1 if any error was reported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.generate(cmd.Context(), cmd.ErrOrStderr(), args)
		},
	}
}
