// Command evctl queries an EV registration dataset from the command line
// using the same filters and aggregates as the dashboard API.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
