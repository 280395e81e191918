package entities

import (
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:32;uniqueIndex;not null" json:"name"`
	Slug string `gorm:"size:32;uniqueIndex;not null" json:"slug"`
}

type Ingredient struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"size:128;index;not null" json:"name"`
	MeasurementUnit string `gorm:"size:64;not null" json:"measurement_unit"`
}

var (
	nonSlugChars = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)
	dashRuns     = regexp.MustCompile(`-{2,}`)

	ErrEmptySlug = errors.New("tag slug is empty")
)

// Slugify lowercases s, turns whitespace runs into dashes and strips
// anything that is not a letter, digit, dash or underscore. Letters outside
// ASCII are kept.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "-")
	s = dashRuns.ReplaceAllString(nonSlugChars.ReplaceAllString(s, ""), "-")
	return strings.Trim(s, "-_")
}

func (t *Tag) BeforeSave(tx *gorm.DB) error {
	if t.Slug == "" {
		t.Slug = Slugify(t.Name)
	}
	if t.Slug == "" {
		return ErrEmptySlug
	}
	return nil
}
