package main

import "credex/internal/cli"

func main() {
	cli.Execute()
}
