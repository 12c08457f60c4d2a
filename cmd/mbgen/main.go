// Command mbgen generates MyBatis artifacts from database tables.
package main

import (
	"os"

	"github.com/syssam/mbgen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
