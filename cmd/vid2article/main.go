package main

import "github.com/forPelevin/vid2article/internal/cli"

func main() {
	cli.Main()
}
