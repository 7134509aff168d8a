package store

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"sltourism/src/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ObjectStore is the picture database with its `images`, `metadata` and
// `thumbnails` object stores.
type ObjectStore interface {
	Records(ctx context.Context) ([]json.RawMessage, error)
	Save(ctx context.Context, rows ObjectRows) error
	Delete(ctx context.Context, id string) (bool, error)
}

// ObjectRows is one write batch across the three object stores.
type ObjectRows struct {
	Images     []models.Image
	Metadata   []models.ImageMetadata
	Thumbnails []models.Thumbnail
}

type GormObjectStore struct {
	db *gorm.DB
}

func NewObjectStore(db *gorm.DB) *GormObjectStore {
	return &GormObjectStore{db: db}
}

// Records joins the three stores by id and returns one raw record per id
// holding only the fields the stores actually have.
func (s *GormObjectStore) Records(ctx context.Context) ([]json.RawMessage, error) {
	var images []models.Image
	var metas []models.ImageMetadata
	var thumbs []models.Thumbnail
	db := s.db.WithContext(ctx)
	if err := db.Find(&images).Error; err != nil {
		return nil, err
	}
	if err := db.Find(&metas).Error; err != nil {
		return nil, err
	}
	if err := db.Find(&thumbs).Error; err != nil {
		return nil, err
	}

	byID := map[string]map[string]any{}
	entry := func(id string) map[string]any {
		m, ok := byID[id]
		if !ok {
			m = map[string]any{"id": id}
			byID[id] = m
		}
		return m
	}
	for _, img := range images {
		m := entry(img.ID)
		m["imageUrl"] = img.ImageURL
		if !img.UploadDate.IsZero() {
			m["uploadDate"] = img.UploadDate.UTC().Format(time.RFC3339Nano)
		}
	}
	for _, md := range metas {
		m := entry(md.ID)
		m["name"] = md.Name
		m["category"] = md.Category
		m["description"] = md.Description
		m["isActive"] = md.IsActive
	}
	for _, th := range thumbs {
		entry(th.ID)["thumbnailUrl"] = th.ThumbnailURL
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]json.RawMessage, 0, len(ids))
	for _, id := range ids {
		b, err := json.Marshal(byID[id])
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// Save upserts every row of the batch in one transaction.
func (s *GormObjectStore) Save(ctx context.Context, rows ObjectRows) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(rows.Images) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows.Images).Error; err != nil {
				return err
			}
		}
		if len(rows.Metadata) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows.Metadata).Error; err != nil {
				return err
			}
		}
		if len(rows.Thumbnails) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows.Thumbnails).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes id from all three stores and reports whether any held it.
func (s *GormObjectStore) Delete(ctx context.Context, id string) (bool, error) {
	var found int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&models.Image{}, &models.ImageMetadata{}, &models.Thumbnail{}} {
			res := tx.Where("id = ?", id).Delete(m)
			if res.Error != nil {
				return res.Error
			}
			found += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return found > 0, nil
}
