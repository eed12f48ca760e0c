package main

import "github.com/nimrod29/padel-bot/internal/cli"

func main() {
	cli.Execute()
}
