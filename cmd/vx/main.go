package main

import "vx/internal/cli"

func main() {
	cli.Execute()
}
