package main

import "ContentWriter/internal/cli"

func main() {
	cli.Execute()
}
