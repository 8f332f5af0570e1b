// Command import loads a CSV export of property listings into MongoDB.
//
// Usage:
//
//	import -file properties.csv
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"hearth/internal/config"
	"hearth/internal/database"
	"hearth/internal/importer"
	"hearth/internal/repository"

	"github.com/joho/godotenv"
)

func main() {
	file := flag.String("file", "", "path to the property listings CSV")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall import timeout")
	flag.Parse()

	if *file == "" {
		log.Fatal("usage: import -file <listings.csv>")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			log.Printf("error disconnecting mongo: %v", err)
		}
	}()

	im := importer.New(
		repository.NewUserRepository(db),
		repository.NewPropertyRepository(db),
	)

	count, err := im.ImportFile(ctx, *file)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Printf("Imported %d listings (owner: %s)", count, importer.AdminEmail)
}
