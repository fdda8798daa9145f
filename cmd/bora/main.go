// Command bora drives the five Bora pipeline stages (lex, parse, sem, ir,
// run) either individually or chained end to end, writing the JSON/text
// sidecar artifacts each stage produces alongside the source file.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
