// Command seed populates the database with demo data.
package main

import (
	"flag"
	"log"

	"newsdesk/internal/config"
	"newsdesk/internal/database"
	"newsdesk/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of writer accounts to create")
	numNews := flag.Int("news", 50, "Number of articles to create")
	numComments := flag.Int("comments", 200, "Number of comments to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:    *numUsers,
		NumNews:     *numNews,
		NumComments: *numComments,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Done. Staff logins: admin / editor, password: password123")
}
