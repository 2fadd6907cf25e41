// Command fivetodo is a local-first personal task manager for the terminal.
package main

import "github.com/twiced-technology-gmbh/fivetodo/cmd"

func main() {
	cmd.Execute()
}
