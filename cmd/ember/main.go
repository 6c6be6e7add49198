// Package main provides the Ember framework CLI.
package main

import (
	"fmt"
	"os"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("Ember Framework %s\n", version)
		return
	}

	fmt.Println("Ember - Deferred Computation Graphs with Immediate Mode")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("")
	fmt.Println("See examples/lenet-immediate for a walkthrough of immediate mode.")
}
