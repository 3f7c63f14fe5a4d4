package main

import "tra-converter/internal/cli"

func main() {
	cli.Execute()
}
