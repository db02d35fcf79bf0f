package main

import "github.com/storegate/backoffice/internal/cli"

func main() {
	cli.Execute()
}
