// hash-gen prints a bcrypt hash for a password supplied on the command
// line, for seeding accounts by hand.
package main

import (
	"flag"
	"fmt"
	"log"

	"payportal.backend/pkg/crypto"
)

func main() {
	password := flag.String("password", "", "password to hash")
	flag.Parse()

	if *password == "" {
		log.Fatal("usage: hash-gen -password <password>")
	}

	hash, err := crypto.HashPassword(*password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	fmt.Println(hash)
}
