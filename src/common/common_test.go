package common

import (
	"context"
	"testing"

	"sltourism/src/gallery"
	"sltourism/src/lib"
	"sltourism/src/store"
	"sltourism/src/types"

	"github.com/stretchr/testify/assert"
)

func TestGalleryEventsTriggerSync(t *testing.T) {
	kv := store.NewMemoryStore()
	kv.Set(context.Background(), store.KeyAdminPictures, `[{"id":"p1","url":"https://img/p1.jpg","category":"safari"}]`)
	bus := lib.NewBus()
	syncer := gallery.NewSyncer(kv, gallery.Options{Notify: bus})
	GalleryConsumers(bus, syncer)
	CatalogConsumers(bus)

	synced := make(chan struct{}, 1)
	bus.Subscribe(lib.EventPicturesSynced, func(types.JSONB) {
		select {
		case synced <- struct{}{}:
		default:
		}
	})

	assert.NoError(t, syncer.Init(context.Background()))
	defer syncer.Teardown()
	<-synced

	v, _, _ := kv.Get(context.Background(), store.KeySitePictures)
	assert.Contains(t, v, `"category":"wildlife"`)

	kv.Set(context.Background(), store.KeyAdminPictures, `[{"id":"p2","url":"https://img/p2.jpg"}]`)
	bus.Publish(context.Background(), lib.EventGalleryUpdate, nil)
	<-synced

	v, _, _ = kv.Get(context.Background(), store.KeySitePictures)
	assert.Contains(t, v, `"id":"p2"`)
	assert.NoError(t, bus.Publish(context.Background(), lib.EventHotelsUpdate, types.JSONB{"count": 2}))
}
