package main

import "github.com/mcoot/betsim/internal/cli"

func main() {
	cli.Execute()
}
