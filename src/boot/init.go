package boot

import (
	"context"
	"errors"
	"log"
	"os"
	"path"

	"sltourism/src/booking"
	"sltourism/src/common"
	"sltourism/src/config"
	"sltourism/src/controllers"
	"sltourism/src/db"
	"sltourism/src/gallery"
	"sltourism/src/lib"
	awslib "sltourism/src/lib/aws"
	"sltourism/src/store"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// Services is everything the HTTP layer needs, built once at startup.
type Services struct {
	KV        store.KeyValue
	Objects   store.ObjectStore
	Bus       *lib.Bus
	Syncer    *gallery.Syncer
	Carousels *gallery.Carousels
	Bookings  *booking.Repository
	Uploader  lib.Uploader
	Geocoder  booking.Geocoder
	TempDir   string

	sched    gocron.Scheduler
	consumer *awslib.SQSConsumer
}

func InitDb() *gorm.DB {
	d := db.GetDb()
	if d == nil {
		log.Println("[boot] No picture database, object store disabled")
		return nil
	}
	if err := db.Migrate(d); err != nil {
		log.Printf("error migration: %s\n", err.Error())
		return nil
	}
	return d
}

// InitStore picks Redis when REDIS_HOST answers, the in-memory store otherwise.
func InitStore(ctx context.Context) (store.KeyValue, gallery.Watcher) {
	if rdb := lib.GetRedisClient(); rdb != nil {
		if err := lib.PingRedis(ctx); err == nil {
			rs := store.NewRedisStore(rdb, config.KEY_PREFIX)
			store.NewKeyValue(rs)
			return rs, rs
		}
	}
	log.Println("[boot] Redis unavailable, using in-memory key-value store")
	return store.NewKeyValue(store.NewMemoryStore()), nil
}

// InitBus wires the remotes listed in EVENT_REMOTES.
func InitBus(ctx context.Context) *lib.Bus {
	bus := lib.NewBus()
	for _, r := range config.Remotes() {
		switch r {
		case "pusher":
			bus.AddRemote(lib.NewPusherRemote())
		case "kafka":
			if _, err := lib.KafkaCreateTopics(ctx, lib.GalleryEventsTopic); err != nil {
				log.Printf("[boot] Could not create kafka topic: %s\n", err.Error())
			}
			bus.AddRemote(lib.NewKafkaRemote())
		case "fcm":
			remote, err := lib.NewFCMRemote(ctx)
			if err != nil {
				log.Printf("[boot] FCM remote disabled: %s\n", err.Error())
				continue
			}
			bus.AddRemote(remote)
		case "sns":
			remote, err := awslib.NewSNSRemote(ctx)
			if err != nil {
				log.Printf("[boot] SNS remote disabled: %s\n", err.Error())
				continue
			}
			bus.AddRemote(remote)
		default:
			log.Printf("[boot] Unknown event remote %q\n", r)
		}
	}
	return bus
}

// InitConsumer feeds events other processes put on SQS_EVENTS_QUEUE to the
// local subscribers of bus.
func InitConsumer(ctx context.Context, bus *lib.Bus) *awslib.SQSConsumer {
	if config.SQS_EVENTS_QUEUE == "" {
		return nil
	}
	client, err := awslib.GetSQSClient(ctx)
	if err != nil {
		log.Printf("[boot] SQS consumer disabled: %s\n", err.Error())
		return nil
	}
	consumer := awslib.NewSQSConsumer(config.SQS_EVENTS_QUEUE, client, func(body string) {
		event, payload, ok := lib.DecodeRemoteEvent(body)
		if !ok {
			log.Printf("[SQS] Ignoring message without an event: %.120s\n", body)
			return
		}
		bus.Deliver(event, payload)
	})
	if err := consumer.Listen(ctx); err != nil {
		return nil
	}
	return consumer
}

func InitUploader(ctx context.Context) lib.Uploader {
	switch config.UPLOAD_PROVIDER {
	case "cloudinary":
		return lib.NewCloudinaryUploader()
	case "s3":
		up, err := awslib.NewS3Uploader(ctx)
		if err != nil {
			log.Printf("[boot] S3 uploader unavailable, storing images inline: %s\n", err.Error())
			return lib.InlineUploader{}
		}
		return up
	}
	return lib.InlineUploader{}
}

func InitScheduler() (gocron.Scheduler, error) {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return nil, err
	}
	sched.Start()
	return sched, nil
}

// Init builds and starts every service.
func Init(ctx context.Context) (*Services, error) {
	s := &Services{Geocoder: lib.MapsGeocoder{}}

	kv, watcher := InitStore(ctx)
	s.KV = kv
	if d := InitDb(); d != nil {
		s.Objects = store.NewObjectStore(d)
	}
	s.Bus = InitBus(ctx)
	s.Uploader = InitUploader(ctx)
	s.Bookings = booking.NewRepository(kv)

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	s.TempDir = path.Join(wd, config.TEMP_DIR)
	if path.IsAbs(config.TEMP_DIR) {
		s.TempDir = config.TEMP_DIR
	}

	sched, err := InitScheduler()
	if err != nil {
		return nil, err
	}
	s.sched = sched

	if err := controllers.SeedAdmin(ctx, kv, config.ADMIN_EMAIL, config.ADMIN_PASSWORD); err != nil {
		log.Printf("[boot] Could not seed admin: %s\n", err.Error())
	}

	s.Syncer = gallery.NewSyncer(kv, gallery.Options{
		Objects:   s.Objects,
		Notify:    s.Bus,
		Scheduler: sched,
		Watcher:   watcher,
		Interval:  config.SyncInterval(),
		Seed:      config.SeedSamples(),
	})
	common.GalleryConsumers(s.Bus, s.Syncer)
	common.CatalogConsumers(s.Bus)
	if err := s.Syncer.Init(ctx); err != nil {
		return nil, err
	}
	s.consumer = InitConsumer(ctx, s.Bus)

	s.Carousels = gallery.NewCarousels(sched, config.CarouselInterval())
	return s, nil
}

// Stop tears the services down in reverse order.
func (s *Services) Stop() error {
	var errs []error
	if s.consumer != nil {
		errs = append(errs, s.consumer.Close())
	}
	if s.Carousels != nil {
		s.Carousels.Stop()
	}
	if s.Syncer != nil {
		errs = append(errs, s.Syncer.Teardown())
	}
	errs = append(errs, lib.StopScheduler())
	lib.CloseKafkaProducer(5000)
	errs = append(errs, db.Close())
	return errors.Join(errs...)
}
