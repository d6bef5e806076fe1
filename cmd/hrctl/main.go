package main

import "github.com/cmlabs-hris/hris-timeledger/internal/cli"

func main() {
	cli.Execute()
}
