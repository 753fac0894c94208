// Package main provides the hello CLI.
package main

import "github.com/mesh-intelligence/hello/internal/cli"

func main() {
	cli.Execute()
}
