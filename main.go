package main

import "github.com/agentic-research/antgen/cmd"

func main() {
	cmd.Execute()
}
