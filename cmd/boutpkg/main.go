package main

import "github.com/boutproject/boutpkg/pkg/cli"

func main() {
	cli.Execute()
}
