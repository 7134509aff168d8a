package gallery

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"sltourism/src/store"

	"github.com/go-co-op/gocron/v2"
)

// Watcher reports writes to storage keys made by any process.
type Watcher interface {
	Watch(ctx context.Context, keys []string, fn func(key string)) (func() error, error)
}

type Options struct {
	Objects   store.ObjectStore
	Notify    Notifier
	Scheduler gocron.Scheduler
	Watcher   Watcher
	Interval  time.Duration
	Seed      bool
}

// Syncer owns the reconciliation lifecycle. Every read-merge-write pass runs
// under one mutex so passes never interleave.
type Syncer struct {
	kv      store.KeyValue
	objects store.ObjectStore
	writer  *Writer
	opts    Options

	mu       sync.Mutex
	triggers chan string
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	job      gocron.Job
	closers  []func() error
	running  bool
}

func NewSyncer(kv store.KeyValue, opts Options) *Syncer {
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Second
	}
	return &Syncer{
		kv:       kv,
		objects:  opts.Objects,
		writer:   NewWriter(kv, opts.Objects, opts.Notify),
		opts:     opts,
		triggers: make(chan string, 1),
	}
}

// Init seeds an empty gallery when asked to, starts the trigger worker, the
// periodic job and the storage watch, and queues a first pass.
func (s *Syncer) Init(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	if s.opts.Seed {
		if err := s.seed(ctx); err != nil {
			log.Printf("[gallery] Could not seed samples: %s\n", err.Error())
		}
	}

	workCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	go s.work(workCtx)

	if s.opts.Scheduler != nil {
		job, err := s.opts.Scheduler.NewJob(
			gocron.DurationJob(s.opts.Interval),
			gocron.NewTask(s.Trigger, "timer"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			log.Printf("[gallery] Could not schedule sync: %s\n", err.Error())
		} else {
			s.job = job
		}
	}

	if s.opts.Watcher != nil {
		closer, err := s.opts.Watcher.Watch(ctx, store.PictureKeys, func(key string) {
			s.Trigger("storage:" + key)
		})
		if err != nil {
			log.Printf("[gallery] Could not watch storage: %s\n", err.Error())
		} else {
			s.closers = append(s.closers, closer)
		}
	}

	s.Trigger("init")
	return nil
}

// Teardown stops the job, the watch and the worker. It waits for an
// in-flight pass to finish.
func (s *Syncer) Teardown() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	var errs []error
	if s.job != nil && s.opts.Scheduler != nil {
		if err := s.opts.Scheduler.RemoveJob(s.job.ID()); err != nil {
			errs = append(errs, err)
		}
		s.job = nil
	}
	for _, c := range s.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	return errors.Join(errs...)
}

// Trigger queues a pass. Triggers that arrive while one is already queued
// collapse into it.
func (s *Syncer) Trigger(reason string) {
	select {
	case s.triggers <- reason:
	default:
	}
}

func (s *Syncer) work(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case reason := <-s.triggers:
			if _, err := s.Sync(ctx); err != nil {
				log.Printf("[gallery] Sync (%s) failed: %s\n", reason, err.Error())
			}
		}
	}
}

// Reconcile reads every location and merges them without writing anything.
func (s *Syncer) Reconcile(ctx context.Context) (MergeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconcile(ctx)
}

func (s *Syncer) reconcile(ctx context.Context) (MergeResult, error) {
	sources, err := ReadSources(ctx, s.kv, s.objects)
	if err != nil {
		return MergeResult{Records: map[string]PictureRecord{}}, err
	}
	return Merge(sources...), nil
}

// Sync runs one full reconcile-and-publish pass.
func (s *Syncer) Sync(ctx context.Context) (PublishReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.reconcile(ctx)
	if err != nil {
		return PublishReport{}, err
	}
	return s.writer.Publish(ctx, res)
}

// Mutate applies fn to the freshly merged set and publishes the result in the
// same critical section. Records fn leaves without any URL are dropped.
func (s *Syncer) Mutate(ctx context.Context, fn func(records map[string]PictureRecord) error) (MergeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.reconcile(ctx)
	if err != nil {
		return res, err
	}
	if err := fn(res.Records); err != nil {
		return res, err
	}
	for id, r := range res.Records {
		if !r.Valid() {
			delete(res.Records, id)
		}
	}
	res.Count = len(res.Records)
	_, err = s.writer.Publish(ctx, res)
	return res, err
}

func (s *Syncer) seed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.reconcile(ctx)
	if err != nil {
		return err
	}
	if res.Count > 0 {
		return nil
	}
	log.Println("[gallery] Gallery is empty, seeding sample pictures")
	return store.WriteJSON(ctx, s.kv, store.KeySitePictures, SamplePictures())
}
