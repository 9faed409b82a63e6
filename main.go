// The main package for the bookscrape executable.
package main

import "github.com/bookscrape/bookscrape/cmd"

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
