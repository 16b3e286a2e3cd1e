package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vesselbridge/sdk/examples/surveyor/lander"
)

func newSchemaCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema [class]",
		Short: "Print the JSON Schema of a class configuration document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			class := lander.ClassName
			if len(args) == 1 {
				class = args[0]
			}
			raw, ok := a.catalog.GetSchema(class)
			if !ok {
				return fmt.Errorf("unknown class %q (built in: %v)", class, a.catalog.List())
			}

			var buf bytes.Buffer
			if err := json.Indent(&buf, []byte(raw), "", "  "); err != nil {
				return fmt.Errorf("failed to format schema: %w", err)
			}
			buf.WriteByte('\n')
			_, err := buf.WriteTo(a.out)
			return err
		},
	}
}
