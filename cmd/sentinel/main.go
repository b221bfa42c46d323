package main

import "github.com/cosmicwatch/neo-sentinel/internal/cli"

func main() {
	cli.Execute()
}
