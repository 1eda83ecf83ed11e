package main

import (
	"github.com/playtrackhq/playtrack/internal/cli"
)

func main() {
	cli.Execute()
}
