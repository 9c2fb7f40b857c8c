// One-off: go run scripts/genhash.go [password] [cost]
package main

import (
	"fmt"
	"os"
	"strconv"

	"tasklist/internal/service"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	password := "admin"
	if len(os.Args) > 1 {
		password = os.Args[1]
	}
	cost := bcrypt.DefaultCost
	if len(os.Args) > 2 {
		n, err := strconv.Atoi(os.Args[2])
		if err != nil {
			panic(err)
		}
		cost = n
	}
	h, err := service.HashPassword(password, cost)
	if err != nil {
		panic(err)
	}
	fmt.Print(h)
}
