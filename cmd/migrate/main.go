package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"goinsight/adapters/postgres"
	"goinsight/internal/migration"
	"goinsight/models"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate <database_url> [seed_file.json]")
	}

	databaseURL := os.Args[1]

	driver := "postgres"
	if len(databaseURL) > 5 && databaseURL[:5] == "file:" {
		driver = "sqlite3"
	}

	db, err := sqlx.Connect(driver, databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	runner := migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Schema migrated to version %s", runner.Version())

	if len(os.Args) < 3 {
		return
	}

	records, err := loadRecords(os.Args[2])
	if err != nil {
		log.Fatalf("Failed to load seed file: %v", err)
	}

	repo := postgres.NewRecordRepository(db)
	imported, skipped := 0, 0
	for i := range records {
		if _, err := repo.Create(ctx, &records[i]); err != nil {
			log.Printf("Failed to import record %q: %v", records[i].Name, err)
			skipped++
			continue
		}
		imported++
	}

	log.Printf("Seed complete: %d imported, %d skipped", imported, skipped)
}

func loadRecords(path string) ([]models.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []models.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}
