package main

import "github.com/zoobzio/hashsafe/cmd/hashsafe/cmd"

func main() {
	cmd.Execute()
}
