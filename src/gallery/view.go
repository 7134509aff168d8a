package gallery

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Filter returns the active records in the category, preserving order.
// "all" or an empty filter keeps every active record.
func Filter(records []PictureRecord, category string) []PictureRecord {
	want := strings.ToLower(strings.TrimSpace(category))
	out := make([]PictureRecord, 0, len(records))
	for _, r := range records {
		if !r.IsActive {
			continue
		}
		if want != "" && want != "all" && strings.ToLower(strings.TrimSpace(string(r.Category))) != want {
			continue
		}
		out = append(out, r)
	}
	return out
}

// PictureInput is what an admin submits for a new or edited picture.
type PictureInput struct {
	Name         string
	Category     string
	Description  string
	ImageURL     string
	ThumbnailURL string
	IsActive     *bool
}

// NewPicture builds a fresh record stamped with now.
func NewPicture(in PictureInput, now time.Time) PictureRecord {
	rec := PictureRecord{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Category:     NormalizeCategory(in.Category),
		Description:  strings.TrimSpace(in.Description),
		ImageURL:     in.ImageURL,
		ThumbnailURL: in.ThumbnailURL,
		UploadDate:   FormatDate(now),
		IsActive:     true,
	}
	if rec.Name == "" {
		rec.Name = untitled
	}
	if in.IsActive != nil {
		rec.IsActive = *in.IsActive
	}
	fillURLs(&rec)
	return rec
}

// PictureEdit is what an admin edit may change. Image URLs only change
// through merge backfill, visibility through deletion.
type PictureEdit struct {
	Name        string
	Category    string
	Description string
}

// Apply overlays the non-empty fields of e onto rec.
func (e PictureEdit) Apply(rec PictureRecord) PictureRecord {
	if v := strings.TrimSpace(e.Name); v != "" {
		rec.Name = v
	}
	if strings.TrimSpace(e.Category) != "" {
		rec.Category = NormalizeCategory(e.Category)
	}
	if v := strings.TrimSpace(e.Description); v != "" {
		rec.Description = v
	}
	return rec
}
