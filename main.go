package main

import "github.com/tanq16/bilidl/cmd"

func main() {
	cmd.Execute()
}
