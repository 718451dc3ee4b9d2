package main

import "github.com/agentic-research/cassette/cmd"

func main() {
	cmd.Execute()
}
