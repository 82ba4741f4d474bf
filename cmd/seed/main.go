// Command main runs the database seeder for Linkup.
package main

import (
	"flag"
	"log"

	"linkup/internal/config"
	"linkup/internal/database"
	"linkup/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 30, "Number of users to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")
	log.Printf("Target: %d users, clean=%v\n", *numUsers, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err = database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(database.DB)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	users, err := s.SeedDirectory(*numUsers)
	if err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}

	pairs, err := s.SeedConnectionMesh(users)
	if err != nil {
		log.Fatalf("Connection seeding failed: %v", err)
	}

	if err := s.SeedChats(pairs); err != nil {
		log.Fatalf("Chat seeding failed: %v", err)
	}

	log.Println("All done! Your database is now populated with test data.")
	log.Println("All test users have the password: Password123!")
}
