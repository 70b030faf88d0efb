package main

import "github.com/mcoot/taflgame/internal/cli"

func main() {
	cli.Execute()
}
