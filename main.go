// The main package for the leaderboard executable.
package main

import (
	"github.com/JakeFAU/cp-leaderboard/cmd"
)

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
