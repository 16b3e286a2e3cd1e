// Command vesselsim runs vessel logic against an in-memory simulation host.
package main

import (
	"os"

	"github.com/vesselbridge/sdk/cmd/vesselsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
