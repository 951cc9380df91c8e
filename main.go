// Package main is the entry point for the formshift CLI.
package main

import "github.com/formshift/formshift/cmd"

func main() {
	cmd.Execute()
}
