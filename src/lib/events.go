package lib

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"sltourism/src/types"

	"github.com/tidwall/gjson"
)

type Event string

// Events of the gallery bus. Names match the custom events the pages listen to.
const (
	EventGalleryUpdate        Event = "galleryUpdate"
	EventGalleryRefresh       Event = "galleryRefresh"
	EventPicturesSynced       Event = "picturesSynced"
	EventFullSyncCompleted    Event = "fullSyncCompleted"
	EventHotelsUpdate         Event = "hotelsUpdate"
	EventAccommodationsUpdate Event = "accommodationsUpdate"
)

type EventHandler func(payload types.JSONB)

// Remote mirrors bus events to an external transport.
type Remote interface {
	Name() string
	Send(ctx context.Context, event Event, payload types.JSONB) error
}

// Bus is the in-process pub/sub that replaces the pages' DOM events.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Event][]EventHandler
	remotes  []Remote
}

func NewBus(remotes ...Remote) *Bus {
	return &Bus{
		handlers: map[Event][]EventHandler{},
		remotes:  remotes,
	}
}

func (b *Bus) Subscribe(event Event, h EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], h)
}

func (b *Bus) AddRemote(r Remote) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.remotes = append(b.remotes, r)
}

// Publish delivers to local handlers first, then to every remote. Remote
// failures are logged and returned joined, they never stop local delivery.
func (b *Bus) Publish(ctx context.Context, event Event, payload types.JSONB) error {
	if payload == nil {
		payload = types.JSONB{}
	}
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.handlers[event]...)
	remotes := append([]Remote(nil), b.remotes...)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(payload)
	}

	var errs []error
	for _, r := range remotes {
		if err := r.Send(ctx, event, payload); err != nil {
			log.Printf("[bus] %s: could not send %s: %s\n", r.Name(), event, err.Error())
			errs = append(errs, fmt.Errorf("%s: %w", r.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Deliver runs the local handlers only. Events that arrived from a remote go
// through here so they are never mirrored back out.
func (b *Bus) Deliver(event Event, payload types.JSONB) {
	if payload == nil {
		payload = types.JSONB{}
	}
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.handlers[event]...)
	b.mu.RUnlock()
	for _, h := range handlers {
		h(payload)
	}
}

// DecodeRemoteEvent reads an event from a queue message. It accepts the
// plain {"event","payload"} envelope and SNS notifications carrying the
// event as a message attribute or subject.
func DecodeRemoteEvent(body string) (Event, types.JSONB, bool) {
	doc := gjson.Parse(body)
	if !doc.IsObject() {
		return "", nil, false
	}
	name := ""
	for _, p := range []string{"event", "MessageAttributes.event.Value", "Subject"} {
		if v := doc.Get(p); v.Type == gjson.String && v.Str != "" {
			name = v.Str
			break
		}
	}
	if name == "" {
		return "", nil, false
	}

	payload := types.JSONB{}
	raw := doc.Get("payload")
	if !raw.Exists() {
		if msg := doc.Get("Message"); msg.Type == gjson.String {
			raw = gjson.Parse(msg.Str)
		}
	}
	if m, ok := raw.Value().(map[string]any); ok {
		payload = m
	}
	return Event(name), payload, true
}
