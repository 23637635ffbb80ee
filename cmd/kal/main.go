package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/arnavsurve/kaleidoscope/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
