// Command wireschema validates and converts wire payloads of the registered
// API types.
package main

import (
	"os"

	"github.com/opik-go/wireschema/types"
)

var version = "dev"

func main() {
	cmd := newRootCmd(types.Registry())
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
