// Command promptpad composes prompts in an editor inside tmux and delivers
// them to a running Claude terminal.
package main

import "os"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := Execute(version); err != nil {
		os.Exit(1)
	}
}
