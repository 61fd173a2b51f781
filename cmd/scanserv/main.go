package main

import "github.com/pwalczyk/scanserv-cli/cmd"

func main() {
	cmd.Execute()
}
