package main

import (
	"os"

	"github.com/logscrub/logscrub/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
