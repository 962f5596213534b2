package main

import (
	"fmt"

	"github.com/fatih/color"
)

func printSignature(name, version string) {
	cyan := color.New(color.FgHiCyan, color.Bold).SprintFunc()
	white := color.New(color.FgWhite).SprintFunc()
	grey := color.New(color.FgHiBlack).SprintFunc()

	fmt.Println()
	fmt.Printf("%s : %s %s\n", cyan("Project    "), white(name), grey("v"+version))
	fmt.Printf("%s : %s\n", cyan("Output     "), white("lossless PNG at original resolution"))
	fmt.Println()
}
