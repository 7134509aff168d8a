package gallery

// Source names in merge order. Later sources win field by field.
const (
	SourceObjectStore   = "objectStore"
	SourceSitePictures  = "sitePictures"
	SourceAdminPictures = "adminPictures"
	SourceAdminMetadata = "adminPicturesMetadata"
)

type MergeResult struct {
	Records map[string]PictureRecord
	Count   int
}

// Sorted returns the records newest first.
func (m MergeResult) Sorted() []PictureRecord {
	out := make([]PictureRecord, 0, len(m.Records))
	for _, r := range m.Records {
		out = append(out, r)
	}
	SortNewest(out)
	return out
}

type mergeEntry struct {
	rec PictureRecord
	set field
}

// Merge folds the sources, in the order given, into one record per id.
//
// A field from a later source replaces the earlier value only when the later
// source actually carries it, so sparse shapes never blank out richer ones.
// uploadDate is the exception: the first one seen is kept. Records left
// without any URL are dropped.
func Merge(sources ...Source) MergeResult {
	acc := map[string]*mergeEntry{}
	for _, src := range sources {
		for _, raw := range src.Records {
			rec, set := normalize(raw.Data, raw.Key)
			e, ok := acc[rec.ID]
			if !ok {
				acc[rec.ID] = &mergeEntry{rec: rec, set: set}
				continue
			}
			e.apply(rec, set)
		}
	}

	out := MergeResult{Records: make(map[string]PictureRecord, len(acc))}
	for id, e := range acc {
		rec := e.rec
		if e.set&fieldImageURL == 0 {
			rec.ImageURL = ""
		}
		if e.set&fieldThumbnailURL == 0 {
			rec.ThumbnailURL = ""
		}
		fillURLs(&rec)
		if !rec.Valid() {
			continue
		}
		out.Records[id] = rec
	}
	out.Count = len(out.Records)
	return out
}

func (e *mergeEntry) apply(rec PictureRecord, set field) {
	if set&fieldName != 0 {
		e.rec.Name = rec.Name
	}
	if set&fieldCategory != 0 {
		e.rec.Category = rec.Category
	}
	if set&fieldDescription != 0 {
		e.rec.Description = rec.Description
	}
	if set&fieldImageURL != 0 {
		e.rec.ImageURL = rec.ImageURL
	}
	if set&fieldThumbnailURL != 0 {
		e.rec.ThumbnailURL = rec.ThumbnailURL
	}
	if set&fieldUploadDate != 0 && e.set&fieldUploadDate == 0 {
		e.rec.UploadDate = rec.UploadDate
	}
	if set&fieldActive != 0 {
		e.rec.IsActive = rec.IsActive
	}
	e.set |= set
}
