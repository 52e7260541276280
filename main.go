package main

import "github.com/devbush/vid2brief/internal/adapters/cli"

func main() {
	cli.Execute()
}
