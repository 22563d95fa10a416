package main

import "github.com/pixelforge/nexus/cmd"

func main() {
	cmd.Execute()
}
