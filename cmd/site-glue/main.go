package main

import (
	"os"

	"github.com/rcliao/site-glue/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
