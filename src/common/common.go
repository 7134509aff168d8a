package common

import (
	"log"

	"sltourism/src/gallery"
	"sltourism/src/lib"
	"sltourism/src/types"
)

// GalleryConsumers turns gallery change notifications into sync passes.
// Bursts collapse in the syncer's trigger queue.
func GalleryConsumers(bus *lib.Bus, syncer *gallery.Syncer) {
	bus.Subscribe(lib.EventGalleryUpdate, func(p types.JSONB) {
		syncer.Trigger(string(lib.EventGalleryUpdate))
	})
	bus.Subscribe(lib.EventGalleryRefresh, func(p types.JSONB) {
		syncer.Trigger(string(lib.EventGalleryRefresh))
	})
}

// CatalogConsumers logs hotel and room edits. Pages refresh through the
// bus remotes.
func CatalogConsumers(bus *lib.Bus) {
	for _, ev := range []lib.Event{lib.EventHotelsUpdate, lib.EventAccommodationsUpdate} {
		bus.Subscribe(ev, func(p types.JSONB) {
			log.Printf("[catalog] %s: %v item(s)\n", ev, p["count"])
		})
	}
}
