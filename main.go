package main

import "github.com/quartzind/lit/cmd"

func main() {
	cmd.Execute()
}
