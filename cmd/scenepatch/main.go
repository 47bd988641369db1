package main

import "scenepatch/internal/cli"

func main() {
	cli.Execute()
}
