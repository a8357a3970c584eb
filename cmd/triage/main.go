package main

import "github.com/deepnoodle-ai/triage/cmd/triage/cli"

func main() {
	cli.Execute()
}
