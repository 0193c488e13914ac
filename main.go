// The main package for the schemascan executable.
package main

import "github.com/schemascan/schemascan/cmd"

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
