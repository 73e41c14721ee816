// useradd provisions an account plus profile directly against the database.
// Intended for bootstrapping the first admin before the API is reachable.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/jackc/pgx/v5/stdlib"

	"assettrack-api/internal/identity"
	"assettrack-api/internal/models"
	"assettrack-api/internal/store"
)

func main() {
	var (
		email      = flag.String("email", "", "Account email (required)")
		password   = flag.String("password", "", "Account password (required, min 6 chars)")
		name       = flag.String("name", "", "Display name (required)")
		role       = flag.String("role", "admin", "Role: admin or user")
		department = flag.String("department", "", "Department")
	)
	flag.Parse()

	_ = godotenv.Load()

	if *email == "" || *password == "" || *name == "" {
		fmt.Fprintln(os.Stderr, "usage: useradd -email ... -password ... -name ... [-role admin|user] [-department ...]")
		os.Exit(2)
	}
	if !models.IsValidRole(models.Role(*role)) {
		log.Fatalf("Invalid role %q: must be admin or user", *role)
	}

	dsn := os.Getenv("ASSETTRACK_DB_DSN")
	if dsn == "" {
		log.Fatal("ASSETTRACK_DB_DSN environment variable is required")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatal("Failed to open database connection:", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	gw := store.NewPostgres(db)
	mgr := identity.NewManager(identity.NewPostgresProvider(db), gw.Users)

	sess, err := mgr.Register(ctx, models.RegisterRequest{
		Email:      *email,
		Password:   *password,
		Name:       *name,
		Role:       models.Role(*role),
		Department: *department,
	})
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("Created %s account %s (uid %s)\n", *role, *email, sess.UID)
}
