package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sort"

	"sltourism/src/store"

	"github.com/tidwall/gjson"
)

// CarouselEntry is one slot of the admin-curated carousel list.
type CarouselEntry struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

// ReadSources loads every picture location in merge order. A malformed key
// reads as empty; a storage error aborts so a pass never publishes a partial
// view over good data.
func ReadSources(ctx context.Context, kv store.KeyValue, objects store.ObjectStore) ([]Source, error) {
	sources := make([]Source, 0, 4)

	obj := Source{Name: SourceObjectStore}
	if objects != nil {
		rows, err := objects.Records(ctx)
		if err != nil {
			log.Printf("[gallery] Could not read object store: %s\n", err.Error())
		}
		for _, r := range rows {
			obj.Records = append(obj.Records, RawRecord{Data: r})
		}
	}
	sources = append(sources, obj)

	for _, k := range []struct{ name, key string }{
		{SourceSitePictures, store.KeySitePictures},
		{SourceAdminPictures, store.KeyAdminPictures},
	} {
		items, err := store.ReadList(ctx, kv, k.key)
		if err != nil && !errors.Is(err, store.ErrMalformed) {
			return nil, err
		}
		if err != nil {
			log.Printf("[gallery] Ignoring malformed %s: %s\n", k.key, err.Error())
		}
		src := Source{Name: k.name}
		for _, it := range items {
			src.Records = append(src.Records, RawRecord{Data: it})
		}
		sources = append(sources, src)
	}

	meta, err := store.ReadMap(ctx, kv, store.KeyAdminPicturesMetadata)
	if err != nil && !errors.Is(err, store.ErrMalformed) {
		return nil, err
	}
	if err != nil {
		log.Printf("[gallery] Ignoring malformed %s: %s\n", store.KeyAdminPicturesMetadata, err.Error())
	}
	ids := make([]string, 0, len(meta))
	for id := range meta {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	src := Source{Name: SourceAdminMetadata}
	for _, id := range ids {
		src.Records = append(src.Records, RawRecord{Key: id, Data: meta[id]})
	}
	sources = append(sources, src)
	return sources, nil
}

// ReadCarousel returns the carousel ids in position order. Entries may be
// bare id strings or objects carrying an id.
func ReadCarousel(ctx context.Context, kv store.KeyValue) ([]CarouselEntry, error) {
	items, err := store.ReadList(ctx, kv, store.KeyCarouselImages)
	if err != nil && !errors.Is(err, store.ErrMalformed) {
		return nil, err
	}
	out := make([]CarouselEntry, 0, len(items))
	for i, it := range items {
		v := gjson.ParseBytes(it)
		e := CarouselEntry{Position: i}
		switch {
		case v.Type == gjson.String:
			e.ID = v.Str
		case v.IsObject():
			e.ID = first(v, idPaths)
			if p := v.Get("position"); p.Exists() {
				e.Position = int(p.Int())
			}
		}
		if e.ID != "" {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// SamplePictures seeds an empty gallery. The images ship in static/samples.
func SamplePictures() []PictureRecord {
	sample := func(slug, name string, category Category, description string) PictureRecord {
		url := "/static/samples/" + slug + ".svg"
		return PictureRecord{
			ID:           "sample-" + slug,
			Name:         name,
			Category:     category,
			Description:  description,
			ImageURL:     url,
			ThumbnailURL: url,
			UploadDate:   "2024-01-01T00:00:00.000Z",
			IsActive:     true,
		}
	}
	return []PictureRecord{
		sample("sigiriya", "Sigiriya Rock Fortress", Culture, "The Lion Rock at sunrise."),
		sample("ella", "Nine Arch Bridge", Scenery, "Ella's tea country viaduct."),
		sample("yala", "Leopard in Yala", Wildlife, "Yala National Park safari."),
		sample("mirissa", "Mirissa Beach", Beach, "Palm-lined bay on the south coast."),
		sample("hoppers", "Egg Hoppers", Food, "A breakfast classic."),
		sample("galle", "Galle Fort Villa", Accommodation, "Colonial villa inside the fort walls."),
	}
}

func marshalRecords(records []PictureRecord) ([]RawRecord, error) {
	out := make([]RawRecord, 0, len(records))
	for _, r := range records {
		b, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		out = append(out, RawRecord{Data: b})
	}
	return out, nil
}
