package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
)

// Storage keys shared with the legacy front end. Each holds a JSON array or
// object, none of them carry a schema version.
const (
	KeySitePictures          = "sitePictures"
	KeyAdminPictures         = "adminPictures"
	KeyAdminPicturesMetadata = "adminPicturesMetadata"
	KeyCarouselImages        = "carouselImages"
	KeySiteHotels            = "siteHotels"
	KeySiteRooms             = "siteRooms"
	KeyBookings              = "bookings"
	KeyHotelBookings         = "hotelBookings"
	KeyUserBookings          = "userBookings"
	KeyCurrentUser           = "currentUser"
	KeyUsers                 = "users"
)

// PictureKeys are the key-value locations holding picture records.
var PictureKeys = []string{
	KeySitePictures,
	KeyAdminPictures,
	KeyAdminPicturesMetadata,
	KeyCarouselImages,
}

var ErrMalformed = errors.New("malformed stored value")

// KeyValue is the browser-style string store the legacy keys live in.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Del(ctx context.Context, key string) error
}

// ReadList decodes the JSON array stored at key. A missing key is an empty
// list. A malformed value is logged and also read as an empty list, the
// returned error wraps ErrMalformed for callers that need to report it.
func ReadList(ctx context.Context, kv KeyValue, key string) ([]json.RawMessage, error) {
	val, ok, err := kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok || val == "" {
		return []json.RawMessage{}, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		log.Printf("[store] Could not parse %s: %s\n", key, err.Error())
		return []json.RawMessage{}, fmt.Errorf("%w: %s: %s", ErrMalformed, key, err.Error())
	}
	return items, nil
}

// ReadMap decodes the JSON object stored at key with the same rules as ReadList.
func ReadMap(ctx context.Context, kv KeyValue, key string) (map[string]json.RawMessage, error) {
	val, ok, err := kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok || val == "" {
		return map[string]json.RawMessage{}, nil
	}
	var items map[string]json.RawMessage
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		log.Printf("[store] Could not parse %s: %s\n", key, err.Error())
		return map[string]json.RawMessage{}, fmt.Errorf("%w: %s: %s", ErrMalformed, key, err.Error())
	}
	if items == nil {
		items = map[string]json.RawMessage{}
	}
	return items, nil
}

// ReadJSON decodes the value at key into v. It reports false when the key is
// missing or malformed.
func ReadJSON(ctx context.Context, kv KeyValue, key string, v any) (bool, error) {
	val, ok, err := kv.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok || val == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(val), v); err != nil {
		log.Printf("[store] Could not parse %s: %s\n", key, err.Error())
		return false, fmt.Errorf("%w: %s: %s", ErrMalformed, key, err.Error())
	}
	return true, nil
}

// WriteJSON overwrites key with the JSON encoding of v.
func WriteJSON(ctx context.Context, kv KeyValue, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return kv.Set(ctx, key, string(b))
}

// WriteIfChanged overwrites key only when the encoded value differs from the
// stored one, so idempotent passes do not fire storage notifications.
func WriteIfChanged(ctx context.Context, kv KeyValue, key string, v any) (bool, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return false, err
	}
	cur, ok, err := kv.Get(ctx, key)
	if err == nil && ok && cur == string(b) {
		return false, nil
	}
	if err := kv.Set(ctx, key, string(b)); err != nil {
		return false, err
	}
	return true, nil
}

var defaultKV KeyValue

// GetKeyValue returns the process-wide key-value store.
func GetKeyValue() KeyValue {
	if defaultKV == nil {
		defaultKV = NewMemoryStore()
	}
	return defaultKV
}

// NewKeyValue replaces the process-wide key-value store.
func NewKeyValue(kv KeyValue) KeyValue {
	defaultKV = kv
	return defaultKV
}
