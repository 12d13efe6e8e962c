package main

import "github.com/lys-lab/txt2bin/cmd"

// main is the entry point of the txt2bin CLI application.
// It executes the root command which handles argument parsing and subcommand dispatch.
func main() {
	cmd.Execute()
}
