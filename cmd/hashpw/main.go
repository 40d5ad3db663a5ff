package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/easyshoppingzone/orderdesk/internal/auth"
	"github.com/easyshoppingzone/orderdesk/internal/enum"
)

func main() {
	// CLI flags
	username := flag.String("username", "", "Staff username")
	password := flag.String("password", "", "Staff password")
	name := flag.String("name", "", "Display name")
	role := flag.String("role", enum.UserRoleStaff, "Role (Admin or Staff)")
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	flag.Parse()

	// Fall back to environment variables
	if *password == "" {
		*password = os.Getenv("HASHPW_PASSWORD")
	}
	if *password == "" {
		log.Fatal("password is required (-password or HASHPW_PASSWORD)")
	}
	if *role != enum.UserRoleAdmin && *role != enum.UserRoleStaff {
		log.Fatalf("unknown role %q", *role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), *cost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	// Without a username just print the hash.
	if *username == "" {
		fmt.Println(string(hash))
		return
	}

	if *name == "" {
		*name = *username
	}
	entry, err := json.MarshalIndent(auth.Account{
		Username:     *username,
		PasswordHash: string(hash),
		Name:         *name,
		Role:         *role,
	}, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode account: %v", err)
	}
	fmt.Println(string(entry))
}
