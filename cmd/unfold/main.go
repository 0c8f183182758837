package main

import "github.com/jt05610/unfold/cmd/unfold/cmd"

func main() {
	cmd.Execute()
}
