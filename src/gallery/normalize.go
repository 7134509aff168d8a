package gallery

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

type field uint8

const (
	fieldName field = 1 << iota
	fieldCategory
	fieldDescription
	fieldImageURL
	fieldThumbnailURL
	fieldUploadDate
	fieldActive
)

// Alias chains, first non-empty wins.
var (
	idPaths          = []string{"id", "_id", "pictureId"}
	namePaths        = []string{"name", "title", "alt"}
	descriptionPaths = []string{"description", "caption", "desc"}
	imagePaths       = []string{"imageUrl", "url", "thumbnailUrl", "src"}
	thumbnailPaths   = []string{"thumbnailUrl", "thumbnail", "thumb"}
	datePaths        = []string{"uploadDate", "dateAdded", "createdAt", "timestamp"}
)

const untitled = "Untitled"

// Normalize turns one stored record of any known shape into a PictureRecord.
// Missing fields get defaults; it never fails.
func Normalize(raw []byte) PictureRecord {
	rec, _ := normalize(raw, "")
	return rec
}

func normalize(raw []byte, key string) (PictureRecord, field) {
	var set field
	doc := gjson.ParseBytes(raw)
	rec := PictureRecord{}

	if v := first(doc, namePaths); v != "" {
		rec.Name = v
		set |= fieldName
	} else {
		rec.Name = untitled
	}

	if v := strings.TrimSpace(doc.Get("category").String()); v != "" {
		set |= fieldCategory
		rec.Category = NormalizeCategory(v)
	} else {
		rec.Category = DefaultCategory
	}

	if v := first(doc, descriptionPaths); v != "" {
		rec.Description = v
		set |= fieldDescription
	}

	// A thumbnail standing in for the image is not an image for merging.
	for _, p := range imagePaths {
		if v := first(doc, []string{p}); v != "" {
			rec.ImageURL = v
			if p != "thumbnailUrl" {
				set |= fieldImageURL
			}
			break
		}
	}
	if v := first(doc, thumbnailPaths); v != "" {
		rec.ThumbnailURL = v
		set |= fieldThumbnailURL
	}
	fillURLs(&rec)

	for _, p := range datePaths {
		if v := parseDate(doc.Get(p)); v != "" {
			rec.UploadDate = v
			set |= fieldUploadDate
			break
		}
	}

	rec.IsActive = true
	if v := doc.Get("isActive"); v.Exists() && v.Type != gjson.Null {
		rec.IsActive = v.Bool()
		set |= fieldActive
	} else if v := doc.Get("active"); v.Exists() && v.Type != gjson.Null {
		rec.IsActive = v.Bool()
		set |= fieldActive
	}
	if strings.EqualFold(strings.TrimSpace(doc.Get("status").String()), "deleted") {
		rec.IsActive = false
		set |= fieldActive
	}

	rec.ID = first(doc, idPaths)
	if rec.ID == "" {
		rec.ID = strings.TrimSpace(key)
	}
	if rec.ID == "" {
		rec.ID = deriveID(rec)
	}
	return rec, set
}

func first(doc gjson.Result, paths []string) string {
	for _, p := range paths {
		v := doc.Get(p)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		if s := strings.TrimSpace(v.String()); s != "" {
			return s
		}
	}
	return ""
}

// fillURLs lets either URL stand in for the other.
func fillURLs(rec *PictureRecord) {
	if rec.ImageURL == "" {
		rec.ImageURL = rec.ThumbnailURL
	}
	if rec.ThumbnailURL == "" {
		rec.ThumbnailURL = rec.ImageURL
	}
}

// parseDate accepts ISO-8601 strings and epoch milliseconds. Unparseable
// strings are kept verbatim rather than dropped.
func parseDate(v gjson.Result) string {
	switch v.Type {
	case gjson.Number:
		ms := v.Int()
		if ms <= 0 {
			return ""
		}
		return FormatDate(time.UnixMilli(ms))
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return ""
		}
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return FormatDate(t)
			}
		}
		return s
	}
	return ""
}

// deriveID gives id-less legacy records a stable identity from their content.
func deriveID(rec PictureRecord) string {
	seed := rec.ImageURL + "|" + rec.ThumbnailURL + "|" + rec.Name
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String()
}
