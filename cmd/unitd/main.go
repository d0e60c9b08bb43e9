package main

import "github.com/fugrusha/booking/internal/cli"

func main() {
	cli.Execute()
}
