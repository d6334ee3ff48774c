package main

import "github.com/darmiel/ticketbind/cmd"

func main() {
	cmd.Execute()
}
