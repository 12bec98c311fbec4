// Command sumdaysctl is the operator tool of the sync server: it issues
// access tokens and applies schema migrations.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
