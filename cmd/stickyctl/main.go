// Command stickyctl inspects and resets the ActiveSticky widget from a
// terminal: saved state, visible windows, monitors and instance eviction.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
