package main

import "modloc/internal/cli"

func main() {
	cli.Execute()
}
