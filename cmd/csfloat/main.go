// Package main is the entry point for the csfloat CLI.
package main

import (
	"github.com/donaldgifford/csfloat-tracker/cmd/csfloat/cmd"
)

func main() {
	cmd.Execute()
}
