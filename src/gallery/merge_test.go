package gallery

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func src(name string, docs ...string) Source {
	s := Source{Name: name}
	for _, d := range docs {
		s.Records = append(s.Records, RawRecord{Data: json.RawMessage(d)})
	}
	return s
}

func TestMergeLaterNonEmptyFieldsWin(t *testing.T) {
	res := Merge(
		src(SourceSitePictures, `{"id":"p1","name":"Old","description":"Kept","imageUrl":"https://img/a.jpg","category":"beach"}`),
		src(SourceAdminPictures, `{"id":"p1","name":"New","description":"","url":"https://img/b.jpg"}`),
	)

	require.Equal(t, 1, res.Count)
	rec := res.Records["p1"]
	assert.Equal(t, "New", rec.Name)
	assert.Equal(t, "Kept", rec.Description, "empty later value must not blank out")
	assert.Equal(t, "https://img/b.jpg", rec.ImageURL)
	assert.Equal(t, Beach, rec.Category, "absent category must not reset to default")
}

func TestMergeActiveOnlyWhenPresent(t *testing.T) {
	res := Merge(
		src(SourceSitePictures, `{"id":"p1","url":"u","isActive":false}`),
		src(SourceAdminPictures, `{"id":"p1","name":"Renamed"}`),
	)
	assert.False(t, res.Records["p1"].IsActive)

	res = Merge(
		src(SourceSitePictures, `{"id":"p1","url":"u","isActive":false}`),
		src(SourceAdminPictures, `{"id":"p1","isActive":true}`),
	)
	assert.True(t, res.Records["p1"].IsActive)
}

func TestMergeKeepsFirstUploadDate(t *testing.T) {
	res := Merge(
		src(SourceObjectStore, `{"id":"p1","imageUrl":"u"}`),
		src(SourceSitePictures, `{"id":"p1","uploadDate":"2024-01-01T00:00:00Z"}`),
		src(SourceAdminPictures, `{"id":"p1","uploadDate":"2025-06-01T00:00:00Z"}`),
	)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", res.Records["p1"].UploadDate)
}

func TestMergeDropsRecordsWithoutURL(t *testing.T) {
	res := Merge(
		src(SourceSitePictures, `{"id":"p1","name":"No image"}`, `{"id":"p2","thumbnailUrl":"t"}`),
	)
	assert.Equal(t, 1, res.Count)
	assert.Contains(t, res.Records, "p2")
	assert.NotContains(t, res.Records, "p1")
}

func TestMergeMetadataKeyedByID(t *testing.T) {
	meta := Source{Name: SourceAdminMetadata, Records: []RawRecord{
		{Key: "p1", Data: json.RawMessage(`{"name":"From metadata","thumbnailUrl":"https://img/t.jpg"}`)},
	}}
	res := Merge(src(SourceSitePictures, `{"id":"p1","imageUrl":"https://img/full.jpg"}`), meta)

	rec := res.Records["p1"]
	assert.Equal(t, "From metadata", rec.Name)
	assert.Equal(t, "https://img/full.jpg", rec.ImageURL, "metadata has no image url to override with")
	assert.Equal(t, "https://img/t.jpg", rec.ThumbnailURL)
}

func TestMergeThumbnailFallbackDoesNotOverride(t *testing.T) {
	res := Merge(
		src(SourceSitePictures, `{"id":"p1","imageUrl":"https://img/full.jpg","thumbnailUrl":"https://img/small.jpg"}`),
		src(SourceAdminPictures, `{"id":"p1","url":"https://img/full.jpg"}`),
	)
	assert.Equal(t, "https://img/small.jpg", res.Records["p1"].ThumbnailURL)

	res = Merge(
		src(SourceSitePictures, `{"id":"p2","imageUrl":"https://img/full.jpg","thumbnailUrl":"https://img/small.jpg"}`),
		src(SourceAdminPictures, `{"id":"p2","thumbnailUrl":"https://img/newer_small.jpg","src":"https://img/other.jpg"}`),
	)
	assert.Equal(t, "https://img/full.jpg", res.Records["p2"].ImageURL, "a thumbnail stand-in never replaces a real image")
	assert.Equal(t, "https://img/newer_small.jpg", res.Records["p2"].ThumbnailURL)
}

func TestMergeIsDeterministic(t *testing.T) {
	sources := []Source{
		src(SourceSitePictures, `{"id":"a","url":"1","uploadDate":"2024-01-02T00:00:00Z"}`, `{"id":"b","url":"2","uploadDate":"2024-01-03T00:00:00Z"}`),
		src(SourceAdminPictures, `{"id":"c","url":"3","uploadDate":"2024-01-02T00:00:00Z"}`),
	}
	first := Merge(sources...)
	second := Merge(sources...)
	assert.Equal(t, first, second)

	ids := []string{}
	for _, r := range first.Sorted() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
}
