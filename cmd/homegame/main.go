package main

import (
	"github.com/pdobson/homegame/internal/cli"
)

func main() {
	cli.Execute()
}
