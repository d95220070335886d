package main

import "github.com/OpenTraceLab/jtagblaster/cmd/jtagblaster/cmd"

func main() {
	cmd.Execute()
}
