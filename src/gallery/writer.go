package gallery

import (
	"context"
	"errors"
	"fmt"
	"log"

	"sltourism/src/lib"
	"sltourism/src/models"
	"sltourism/src/store"
	"sltourism/src/types"
)

// Notifier receives the sync completion events.
type Notifier interface {
	Publish(ctx context.Context, event lib.Event, payload types.JSONB) error
}

// adminPicture is the record shape the admin list page stores.
type adminPicture struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Thumbnail   string   `json:"thumbnail"`
	UploadDate  string   `json:"uploadDate"`
	IsActive    bool     `json:"isActive"`
}

// metadataEntry is the per-id value of adminPicturesMetadata. It carries no
// image URL, the thumbnail stands in.
type metadataEntry struct {
	Name         string   `json:"name"`
	Category     Category `json:"category"`
	Description  string   `json:"description"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	UploadDate   string   `json:"uploadDate"`
	IsActive     bool     `json:"isActive"`
}

type PublishReport struct {
	Count   int
	Changed []string
}

type Writer struct {
	kv      store.KeyValue
	objects store.ObjectStore
	notify  Notifier
}

func NewWriter(kv store.KeyValue, objects store.ObjectStore, notify Notifier) *Writer {
	return &Writer{kv: kv, objects: objects, notify: notify}
}

// Publish writes the merged set back to every location in that location's
// own shape. Each location is attempted even if another fails; failures are
// joined into the returned error and nothing is rolled back. Events fire
// only when some location actually changed.
func (w *Writer) Publish(ctx context.Context, result MergeResult) (PublishReport, error) {
	sorted := result.Sorted()
	report := PublishReport{Count: len(sorted)}
	var errs []error

	write := func(key string, v any) {
		changed, err := store.WriteIfChanged(ctx, w.kv, key, v)
		if err != nil {
			log.Printf("[gallery] Could not write %s: %s\n", key, err.Error())
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		if changed {
			report.Changed = append(report.Changed, key)
		}
	}

	write(store.KeySitePictures, sorted)

	admin := make([]adminPicture, 0, len(sorted))
	meta := make(map[string]metadataEntry, len(sorted))
	for _, r := range sorted {
		admin = append(admin, adminPicture{
			ID:          r.ID,
			Name:        r.Name,
			Category:    r.Category,
			Description: r.Description,
			URL:         r.ImageURL,
			Thumbnail:   r.ThumbnailURL,
			UploadDate:  r.UploadDate,
			IsActive:    r.IsActive,
		})
		meta[r.ID] = metadataEntry{
			Name:         r.Name,
			Category:     r.Category,
			Description:  r.Description,
			ThumbnailURL: r.ThumbnailURL,
			UploadDate:   r.UploadDate,
			IsActive:     r.IsActive,
		}
	}
	write(store.KeyAdminPictures, admin)
	write(store.KeyAdminPicturesMetadata, meta)

	carousel, err := ReadCarousel(ctx, w.kv)
	if err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", store.KeyCarouselImages, err))
	} else {
		write(store.KeyCarouselImages, pruneCarousel(carousel, result.Records))
	}

	if w.objects != nil {
		if err := w.objects.Save(ctx, objectRows(sorted)); err != nil {
			log.Printf("[gallery] Could not save object store: %s\n", err.Error())
			errs = append(errs, fmt.Errorf("%s: %w", SourceObjectStore, err))
		}
	}

	if w.notify != nil && len(report.Changed) > 0 {
		payload := types.JSONB{"count": report.Count, "changed": report.Changed}
		if err := w.notify.Publish(ctx, lib.EventFullSyncCompleted, payload); err != nil {
			log.Printf("[gallery] %s: %s\n", lib.EventFullSyncCompleted, err.Error())
		}
		if err := w.notify.Publish(ctx, lib.EventPicturesSynced, payload); err != nil {
			log.Printf("[gallery] %s: %s\n", lib.EventPicturesSynced, err.Error())
		}
	}
	return report, errors.Join(errs...)
}

// pruneCarousel drops entries whose picture no longer exists and renumbers
// the rest.
func pruneCarousel(entries []CarouselEntry, records map[string]PictureRecord) []CarouselEntry {
	out := make([]CarouselEntry, 0, len(entries))
	seen := map[string]bool{}
	for _, e := range entries {
		if _, ok := records[e.ID]; !ok || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, CarouselEntry{ID: e.ID, Position: len(out)})
	}
	return out
}

func objectRows(records []PictureRecord) store.ObjectRows {
	rows := store.ObjectRows{}
	for _, r := range records {
		rows.Images = append(rows.Images, models.Image{ID: r.ID, ImageURL: r.ImageURL, UploadDate: r.Uploaded()})
		rows.Metadata = append(rows.Metadata, models.ImageMetadata{
			ID:          r.ID,
			Name:        r.Name,
			Category:    string(r.Category),
			Description: r.Description,
			IsActive:    r.IsActive,
		})
		rows.Thumbnails = append(rows.Thumbnails, models.Thumbnail{ID: r.ID, ThumbnailURL: r.ThumbnailURL})
	}
	return rows
}
