package gallery

import (
	"testing"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	records := []PictureRecord{
		{ID: "1", Category: Beach, IsActive: true},
		{ID: "2", Category: Wildlife, IsActive: true},
		{ID: "3", Category: Beach, IsActive: false},
		{ID: "4", Category: Beach, IsActive: true},
	}

	ids := func(rs []PictureRecord) []string {
		out := []string{}
		for _, r := range rs {
			out = append(out, r.ID)
		}
		return out
	}

	assert.Equal(t, []string{"1", "2", "4"}, ids(Filter(records, "all")))
	assert.Equal(t, []string{"1", "2", "4"}, ids(Filter(records, "")))
	assert.Equal(t, []string{"1", "4"}, ids(Filter(records, " Beach ")))
	assert.Empty(t, Filter(records, "food"))
	for _, r := range Filter(records, "wildlife") {
		assert.True(t, r.IsActive)
		assert.Equal(t, Wildlife, r.Category)
	}
}

func TestNewPictureAndApply(t *testing.T) {
	now := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	rec := NewPicture(PictureInput{Name: " Test Beach ", Category: "Beach", ThumbnailURL: "https://img/t.jpg"}, now)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "Test Beach", rec.Name)
	assert.Equal(t, Beach, rec.Category)
	assert.Equal(t, "https://img/t.jpg", rec.ImageURL)
	assert.Equal(t, "2025-02-03T04:05:06.000Z", rec.UploadDate)
	assert.True(t, rec.IsActive)

	edited := PictureEdit{Category: "hotels", Description: " Galle Face "}.Apply(rec)
	assert.Equal(t, rec.ID, edited.ID)
	assert.Equal(t, "Test Beach", edited.Name)
	assert.Equal(t, Accommodation, edited.Category)
	assert.Equal(t, "Galle Face", edited.Description)
	assert.Equal(t, rec.ImageURL, edited.ImageURL)
	assert.Equal(t, rec.ThumbnailURL, edited.ThumbnailURL)
	assert.True(t, edited.IsActive)
	assert.Equal(t, rec.UploadDate, edited.UploadDate)
}

func TestCarouselWrapsAround(t *testing.T) {
	c := NewCarousel(nil, time.Second)
	assert.Equal(t, "", c.Current())
	c.Advance()
	assert.Equal(t, 0, c.Index())

	c.SetItems([]string{"a", "b", "c"})
	for i := 0; i < 7; i++ {
		c.Advance()
	}
	assert.Equal(t, 1, c.Index())
	assert.Equal(t, "b", c.Current())

	assert.Equal(t, 2, c.Select(5))
	assert.Equal(t, 2, c.Select(-1))

	c.SetItems([]string{"a", "b", "c"})
	assert.Equal(t, 2, c.Index(), "same items keep the position")
	c.SetItems([]string{"x"})
	assert.Equal(t, 0, c.Index())
	require.Equal(t, []string{"x"}, c.Items())
}

func TestCarouselAutoAdvanceAndRestart(t *testing.T) {
	sched, err := gocron.NewScheduler()
	require.NoError(t, err)
	sched.Start()
	defer sched.Shutdown()

	c := NewCarousel(sched, 50*time.Millisecond)
	c.SetItems([]string{"a", "b", "c"})
	c.Start()
	defer c.Stop()

	jobs := sched.Jobs()
	require.Len(t, jobs, 1)
	first := jobs[0].ID()
	assert.Eventually(t, func() bool { return c.Index() != 0 }, 2*time.Second, 10*time.Millisecond)

	c.Select(0)
	assert.Eventually(t, func() bool {
		jobs := sched.Jobs()
		return len(jobs) == 1 && jobs[0].ID() != first
	}, time.Second, 10*time.Millisecond, "select replaces the timer job")

	c.Stop()
	assert.Eventually(t, func() bool { return len(sched.Jobs()) == 0 }, time.Second, 10*time.Millisecond)
	stopped := c.Index()
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, stopped, c.Index())
}

func TestCarouselsPerCategory(t *testing.T) {
	cs := NewCarousels(nil, time.Second)
	beach := cs.For(" Beach ")
	beach.SetItems([]string{"b1", "b2", "b3"})
	beach.Select(2)

	cs.For("culture").SetItems([]string{"c1"})
	cs.For("").SetItems([]string{"b1", "c1"})

	assert.Same(t, beach, cs.For("beach"))
	assert.Equal(t, 2, cs.For("beach").Index())
	assert.Same(t, cs.For(""), cs.For("all"))
	assert.NotSame(t, cs.For("atlantis"), cs.For("atlantis"), "unknown categories are not kept")
	cs.Stop()
}
