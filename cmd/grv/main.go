// Command grv estimates reservoir gross rock volume from well control
// points.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newCLI(os.Stdout, os.Stderr).root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
