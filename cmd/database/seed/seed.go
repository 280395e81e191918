package seed

import (
	"fmt"
	"log"
	"os"

	"Foodgram-Backend/entities"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
)

type (
	ingredientRecord struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	}

	tagRecord struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
)

func readJSON(path string, dst any) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", path, err)
	}
	if err := json.Unmarshal(file, dst); err != nil {
		return fmt.Errorf("error parsing %s: %w", path, err)
	}
	return nil
}

// Ingredients loads the catalog from a JSON array. Rows that already exist
// with the same name and unit are left alone, so the command can be re-run.
func Ingredients(db *gorm.DB, path string) (int, error) {
	var records []ingredientRecord
	if err := readJSON(path, &records); err != nil {
		return 0, err
	}

	created := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			ingredient := entities.Ingredient{Name: rec.Name, MeasurementUnit: rec.MeasurementUnit}
			res := tx.Where(ingredient).FirstOrCreate(&ingredient)
			if res.Error != nil {
				return res.Error
			}
			created += int(res.RowsAffected)
		}
		return nil
	})
	return created, err
}

func Tags(db *gorm.DB, path string) (int, error) {
	var records []tagRecord
	if err := readJSON(path, &records); err != nil {
		return 0, err
	}

	created := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			slug := rec.Slug
			if slug == "" {
				slug = entities.Slugify(rec.Name)
			}
			tag := entities.Tag{Name: rec.Name, Slug: slug}
			res := tx.Where(entities.Tag{Slug: slug}).FirstOrCreate(&tag)
			if res.Error != nil {
				return res.Error
			}
			created += int(res.RowsAffected)
		}
		return nil
	})
	return created, err
}

func Run(db *gorm.DB, ingredientsPath, tagsPath string) error {
	n, err := Ingredients(db, ingredientsPath)
	if err != nil {
		return err
	}
	log.Printf("Seeded %d ingredients\n", n)

	n, err = Tags(db, tagsPath)
	if err != nil {
		return err
	}
	log.Printf("Seeded %d tags\n", n)
	return nil
}
