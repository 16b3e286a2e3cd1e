package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newClassesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "List the built-in vessel classes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range a.catalog.List() {
				def, _ := a.catalog.Lookup(name)
				version := def.Version
				if version == "" {
					version = "-"
				}
				fmt.Fprintf(a.out, "%-16s %s\n", name, version)
			}
			return nil
		},
	}
}
