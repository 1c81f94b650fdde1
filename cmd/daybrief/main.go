package main

import "github.com/devbush/daybrief/internal/adapters/cli"

func main() {
	cli.Execute()
}
