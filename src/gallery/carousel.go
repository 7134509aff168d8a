package gallery

import (
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Carousel cycles a featured index over a list of picture ids. Manual
// selection restarts the auto-advance timer.
type Carousel struct {
	mu       sync.Mutex
	ids      []string
	index    int
	sched    gocron.Scheduler
	interval time.Duration
	job      gocron.Job
}

// NewCarousel returns a carousel that advances every interval on sched. A nil
// scheduler gives a carousel that only moves on Select or Advance.
func NewCarousel(sched gocron.Scheduler, interval time.Duration) *Carousel {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Carousel{sched: sched, interval: interval}
}

// SetItems replaces the id list. The index resets when the list changed, so
// callers should keep one carousel per filtered view (see Carousels).
func (c *Carousel) SetItems(ids []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if slices.Equal(c.ids, ids) {
		return
	}
	c.ids = append([]string(nil), ids...)
	c.index = 0
}

func (c *Carousel) Items() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.ids...)
}

func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Current returns the featured id, or "" when empty.
func (c *Carousel) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.ids) == 0 {
		return ""
	}
	return c.ids[c.index]
}

func (c *Carousel) Advance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.ids) == 0 {
		c.index = 0
		return
	}
	c.index = (c.index + 1) % len(c.ids)
}

// Select jumps to i (taken modulo the list length) and restarts the timer.
func (c *Carousel) Select(i int) int {
	c.mu.Lock()
	if n := len(c.ids); n > 0 {
		c.index = ((i % n) + n) % n
	} else {
		c.index = 0
	}
	idx := c.index
	c.mu.Unlock()
	c.restart()
	return idx
}

// Start schedules auto-advance.
func (c *Carousel) Start() {
	if c.sched == nil {
		return
	}
	job, err := c.sched.NewJob(gocron.DurationJob(c.interval), gocron.NewTask(c.Advance))
	if err != nil {
		log.Printf("[carousel] Could not schedule: %s\n", err.Error())
		return
	}
	c.mu.Lock()
	c.job = job
	c.mu.Unlock()
}

func (c *Carousel) Stop() {
	c.mu.Lock()
	job := c.job
	c.job = nil
	c.mu.Unlock()
	if job == nil || c.sched == nil {
		return
	}
	if err := c.sched.RemoveJob(job.ID()); err != nil {
		log.Printf("[carousel] Could not remove job: %s\n", err.Error())
	}
}

func (c *Carousel) restart() {
	c.mu.Lock()
	running := c.job != nil
	c.mu.Unlock()
	if !running {
		return
	}
	c.Stop()
	c.Start()
}

const allCategories = "all"

// Carousels keeps one carousel per category filter so viewers of different
// categories do not reset each other's position.
type Carousels struct {
	mu       sync.Mutex
	sched    gocron.Scheduler
	interval time.Duration
	byKey    map[string]*Carousel
}

func NewCarousels(sched gocron.Scheduler, interval time.Duration) *Carousels {
	return &Carousels{sched: sched, interval: interval, byKey: map[string]*Carousel{}}
}

func carouselKey(category string) string {
	key := strings.ToLower(strings.TrimSpace(category))
	if key == "" {
		return allCategories
	}
	return key
}

// For returns the carousel of category, starting it on first use. Unknown
// categories get a throwaway carousel that is neither kept nor scheduled.
func (cs *Carousels) For(category string) *Carousel {
	key := carouselKey(category)
	if key != allCategories && !IsCategory(key) {
		return NewCarousel(nil, cs.interval)
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	c, ok := cs.byKey[key]
	if !ok {
		c = NewCarousel(cs.sched, cs.interval)
		c.Start()
		cs.byKey[key] = c
	}
	return c
}

func (cs *Carousels) Stop() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for key, c := range cs.byKey {
		c.Stop()
		delete(cs.byKey, key)
	}
}
