package main

import "github.com/kailas-cloud/fanout/internal/cli"

func main() {
	cli.Execute()
}
