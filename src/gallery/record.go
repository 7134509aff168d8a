package gallery

import (
	"encoding/json"
	"sort"
	"time"
)

// DateLayout is the canonical uploadDate form: UTC with milliseconds, so that
// string order equals time order.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// PictureRecord is the canonical gallery item.
type PictureRecord struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     Category `json:"category"`
	Description  string   `json:"description"`
	ImageURL     string   `json:"imageUrl"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	UploadDate   string   `json:"uploadDate"`
	IsActive     bool     `json:"isActive"`
}

// Valid reports whether the record can be displayed at all.
func (p PictureRecord) Valid() bool {
	return p.ImageURL != "" || p.ThumbnailURL != ""
}

func (p PictureRecord) Uploaded() time.Time {
	t, _ := time.Parse(time.RFC3339Nano, p.UploadDate)
	return t
}

// RawRecord is one stored record exactly as a location holds it. Key carries
// the id for locations that key their entries by id rather than embed it.
type RawRecord struct {
	Key  string
	Data json.RawMessage
}

// Source is one storage location's records, in the order they were read.
type Source struct {
	Name    string
	Records []RawRecord
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// SortNewest orders records by uploadDate descending, id ascending on ties.
func SortNewest(records []PictureRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].UploadDate != records[j].UploadDate {
			return records[i].UploadDate > records[j].UploadDate
		}
		return records[i].ID < records[j].ID
	})
}
