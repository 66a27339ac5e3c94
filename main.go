package main

import "github.com/srcup/srcup/internal/cli"

func main() {
	cli.Execute()
}
