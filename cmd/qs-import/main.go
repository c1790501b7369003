// Command qs-import loads QS university ranking data into the database
// from a JSON file of the form {"2024": [{"rank": 1, "name": ..., "region": ...}]}.
// The import is idempotent: regions, universities and years are
// get-or-created, ranking rows are upserted per (year, university).
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"edu-feedback-api/config"
	"edu-feedback-api/models"
)

type rankingEntry struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var (
		dataPath string
		truncate bool
	)
	flag.StringVar(&dataPath, "data", "qs_rankings.json", "path to the QS rankings JSON file")
	flag.BoolVar(&truncate, "truncate", false, "delete existing ranking data before loading")
	flag.Parse()

	config.InitDB()
	if err := models.AutoMigrate(config.DB); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	raw, err := os.ReadFile(dataPath)
	if err != nil {
		log.Fatalf("Failed to read rankings file: %v", err)
	}

	var rankings map[string][]rankingEntry
	if err := json.Unmarshal(raw, &rankings); err != nil {
		log.Fatalf("Failed to parse rankings file: %v", err)
	}

	runID := uuid.NewString()
	log.Printf("Starting QS ranking import run %s (%d years)", runID, len(rankings))

	if truncate {
		log.Println("Deleting old ranking data...")
		for _, model := range []any{&models.UniversityRanking{}, &models.YearRanking{}} {
			if err := config.DB.Where("1 = 1").Delete(model).Error; err != nil {
				log.Fatalf("Failed to delete old data: %v", err)
			}
		}
	}

	failures := 0
	for yearStr, entries := range rankings {
		if err := loadYear(config.DB, yearStr, entries); err != nil {
			log.Printf("Year %s failed: %v", yearStr, err)
			failures++
			continue
		}
		log.Printf("Loaded %d ranking records for year %s", len(entries), yearStr)
	}

	fmt.Printf("Import run %s complete: %d years, %d failed\n", runID, len(rankings), failures)
	if failures > 0 {
		os.Exit(2)
	}
}

func loadYear(db *gorm.DB, yearStr string, entries []rankingEntry) error {
	return db.Transaction(func(tx *gorm.DB) error {
		year := models.YearRanking{Year: yearStr}
		if err := tx.Where("year = ?", yearStr).FirstOrCreate(&year).Error; err != nil {
			return err
		}

		for _, entry := range entries {
			region := models.Region{Name: entry.Region}
			if err := tx.Where("name = ?", entry.Region).FirstOrCreate(&region).Error; err != nil {
				return err
			}

			university := models.University{Name: entry.Name, RegionID: &region.RegionID}
			if err := tx.Where("name = ? AND region_id = ?", entry.Name, region.RegionID).
				FirstOrCreate(&university).Error; err != nil {
				return err
			}

			ranking := models.UniversityRanking{
				YearID:       year.YearID,
				UniversityID: university.UniversityID,
				Rank:         entry.Rank,
			}
			err := tx.Where("year_id = ? AND university_id = ?", year.YearID, university.UniversityID).
				First(&models.UniversityRanking{}).Error
			switch {
			case err == nil:
				if err := tx.Model(&models.UniversityRanking{}).
					Where("year_id = ? AND university_id = ?", year.YearID, university.UniversityID).
					Update("rank", entry.Rank).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(&ranking).Error; err != nil {
					return err
				}
			default:
				return err
			}
		}
		return nil
	})
}
