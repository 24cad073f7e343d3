// Command postctl is the operator CLI for schema migrations and demo data.
package main

import "postboard/cmd/postctl/commands"

func main() {
	commands.Execute()
}
