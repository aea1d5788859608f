// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"
	"os/user"

	"ctxtok/repl"
	"ctxtok/token"
)

func main() {
	currentUser, err := user.Current()
	if err != nil {
		fmt.Printf("Error getting current user: %v\n", err)
		return
	}

	fmt.Printf("Welcome to the ctxtok REPL, %s!\n", currentUser.Username)
	fmt.Println("Type a line to see its context tree.")
	repl.Start(os.Stdin, os.Stdout, token.DefaultGrammar())
}
