package main

import (
	"Folio/cmd/api/commands"
)

func main() {
	commands.Execute()
}
