// seed-staff creates (or keeps) the bootstrap staff account in the durable
// store. Safe to run repeatedly: the account is keyed by email.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"payportal.backend/internal/config"
	"payportal.backend/internal/infrastructure/datasources"
)

func main() {
	email := flag.String("email", "", "staff account email (defaults to BOOTSTRAP_STAFF_EMAIL)")
	password := flag.String("password", "", "staff account password (defaults to BOOTSTRAP_STAFF_PASSWORD)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()

	if *email == "" {
		*email = cfg.Bootstrap.StaffEmail
	}
	if *password == "" {
		*password = cfg.Bootstrap.StaffPassword
	}

	ctx := context.Background()
	db, inMemory, err := datasources.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	if inMemory {
		log.Fatal("refusing to seed the transient in-memory store")
	}

	if err := datasources.SeedBootstrapStaff(ctx, db, *email, *password); err != nil {
		log.Fatalf("failed to seed staff account: %v", err)
	}
	log.Printf("staff account present: %s", *email)
}
