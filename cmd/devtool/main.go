package main

import "verity/internal/devtool/cli"

func main() {
	cli.Execute()
}
