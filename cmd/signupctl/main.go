// Command signupctl drives the signup form against a running signup service
// from the terminal: every flag becomes the UI event a browser would fire.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
