package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"sltourism/src/store"

	"github.com/tidwall/gjson"
)

var ErrNotFound = errors.New("picture not found")

// DeleteReport lists, per location, whether the id was removed, absent, or
// could not be processed.
type DeleteReport struct {
	ID      string            `json:"id"`
	Removed []string          `json:"removed"`
	Missing []string          `json:"missing"`
	Failed  map[string]string `json:"failed,omitempty"`
}

func (r DeleteReport) Found() bool {
	return len(r.Removed) > 0
}

// SoftDelete marks the picture inactive everywhere. It stays in storage.
func (s *Syncer) SoftDelete(ctx context.Context, id string) (PictureRecord, error) {
	var out PictureRecord
	_, err := s.Mutate(ctx, func(records map[string]PictureRecord) error {
		rec, ok := records[id]
		if !ok {
			return ErrNotFound
		}
		rec.IsActive = false
		records[id] = rec
		out = rec
		return nil
	})
	return out, err
}

// HardDelete removes id from every picture key and from the object store.
// Each location is processed independently; a location that fails does not
// stop the others.
func (s *Syncer) HardDelete(ctx context.Context, id string) DeleteReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := DeleteReport{ID: id, Removed: []string{}, Missing: []string{}, Failed: map[string]string{}}
	fail := func(loc string, err error) {
		log.Printf("[gallery] Hard delete of %s in %s failed: %s\n", id, loc, err.Error())
		report.Failed[loc] = err.Error()
	}
	mark := func(loc string, removed bool) {
		if removed {
			report.Removed = append(report.Removed, loc)
		} else {
			report.Missing = append(report.Missing, loc)
		}
	}

	for _, key := range []string{store.KeySitePictures, store.KeyAdminPictures, store.KeyCarouselImages} {
		removed, err := s.removeFromList(ctx, key, id)
		if err != nil {
			fail(key, err)
			continue
		}
		mark(key, removed)
	}

	removed, err := s.removeFromMap(ctx, store.KeyAdminPicturesMetadata, id)
	if err != nil {
		fail(store.KeyAdminPicturesMetadata, err)
	} else {
		mark(store.KeyAdminPicturesMetadata, removed)
	}

	if s.objects != nil {
		removed, err := s.objects.Delete(ctx, id)
		if err != nil {
			fail(SourceObjectStore, err)
		} else {
			mark(SourceObjectStore, removed)
		}
	}
	return report
}

func (s *Syncer) removeFromList(ctx context.Context, key, id string) (bool, error) {
	items, err := store.ReadList(ctx, s.kv, key)
	if err != nil {
		return false, err
	}
	kept := make([]json.RawMessage, 0, len(items))
	for _, it := range items {
		if entryID(it) == id {
			continue
		}
		kept = append(kept, it)
	}
	if len(kept) == len(items) {
		return false, nil
	}
	if err := store.WriteJSON(ctx, s.kv, key, kept); err != nil {
		return false, fmt.Errorf("write: %w", err)
	}
	return true, nil
}

func (s *Syncer) removeFromMap(ctx context.Context, key, id string) (bool, error) {
	items, err := store.ReadMap(ctx, s.kv, key)
	if err != nil {
		return false, err
	}
	if _, ok := items[id]; !ok {
		return false, nil
	}
	delete(items, id)
	if err := store.WriteJSON(ctx, s.kv, key, items); err != nil {
		return false, fmt.Errorf("write: %w", err)
	}
	return true, nil
}

// entryID resolves the id of a stored list entry the same way Normalize does,
// including bare-string carousel entries and derived ids.
func entryID(raw json.RawMessage) string {
	v := gjson.ParseBytes(raw)
	if v.Type == gjson.String {
		return v.Str
	}
	return Normalize(raw).ID
}
