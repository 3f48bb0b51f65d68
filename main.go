package main

import (
	"os"

	"github.com/glundgren93/railboard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
