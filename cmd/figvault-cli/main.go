package main

import "figvault/cmd/figvault-cli/cmd"

func main() {
	cmd.Execute()
}
