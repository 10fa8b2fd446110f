// Command mumkinctl manages the course catalog from a terminal, signed in
// as an instructor or admin.
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
