package main

import "github.com/m3rciful/librarybot/internal/cli"

func main() {
	cli.Execute()
}
