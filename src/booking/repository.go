package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"sltourism/src/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("booking not found")

// Repository keeps bookings in the legacy `bookings` and `hotelBookings`
// lists and indexes them per guest email under `userBookings`.
type Repository struct {
	kv store.KeyValue
	mu sync.Mutex
}

func NewRepository(kv store.KeyValue) *Repository {
	return &Repository{kv: kv}
}

func keyFor(kind Kind) string {
	if kind == KindHotel {
		return store.KeyHotelBookings
	}
	return store.KeyBookings
}

func (r *Repository) load(ctx context.Context, kind Kind) ([]Record, error) {
	var out []Record
	if _, err := store.ReadJSON(ctx, r.kv, keyFor(kind), &out); err != nil && !errors.Is(err, store.ErrMalformed) {
		return nil, err
	}
	if out == nil {
		out = []Record{}
	}
	return out, nil
}

// Create stores rec as a new pending booking. No availability or duplicate
// checks are made.
func (r *Repository) Create(ctx context.Context, rec Record, now time.Time) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.Kind == "" {
		rec.Kind = KindTransport
	}
	rec.ID = uuid.NewString()
	rec.Status = StatusPending
	rec.CreatedAt = now.UTC()
	if rec.Deposit.IsZero() && !rec.Price.IsZero() {
		rec.Deposit = decimal.NewFromFloat(Deposit(rec.Price.InexactFloat64()))
	}

	list, err := r.load(ctx, rec.Kind)
	if err != nil {
		return Record{}, err
	}
	list = append(list, rec)
	if err := store.WriteJSON(ctx, r.kv, keyFor(rec.Kind), list); err != nil {
		return Record{}, fmt.Errorf("save booking: %w", err)
	}

	if email := strings.ToLower(strings.TrimSpace(rec.GuestEmail)); email != "" {
		index, err := r.userIndex(ctx)
		if err != nil {
			return rec, err
		}
		index[email] = append(index[email], rec.ID)
		if err := store.WriteJSON(ctx, r.kv, store.KeyUserBookings, index); err != nil {
			return rec, fmt.Errorf("index booking: %w", err)
		}
	}
	return rec, nil
}

func (r *Repository) userIndex(ctx context.Context) (map[string][]string, error) {
	index := map[string][]string{}
	if _, err := store.ReadJSON(ctx, r.kv, store.KeyUserBookings, &index); err != nil && !errors.Is(err, store.ErrMalformed) {
		return nil, err
	}
	if index == nil {
		index = map[string][]string{}
	}
	return index, nil
}

// List returns bookings of kind, or of both kinds when kind is empty, newest first.
func (r *Repository) List(ctx context.Context, kind Kind) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := []Kind{KindTransport, KindHotel}
	if kind != "" {
		kinds = []Kind{kind}
	}
	out := []Record{}
	for _, k := range kinds {
		list, err := r.load(ctx, k)
		if err != nil {
			return nil, err
		}
		out = append(out, list...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ForGuest returns the bookings indexed under email.
func (r *Repository) ForGuest(ctx context.Context, email string) ([]Record, error) {
	r.mu.Lock()
	index, err := r.userIndex(ctx)
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	ids := map[string]bool{}
	for _, id := range index[strings.ToLower(strings.TrimSpace(email))] {
		ids[id] = true
	}
	all, err := r.List(ctx, "")
	if err != nil {
		return nil, err
	}
	out := []Record{}
	for _, b := range all {
		if ids[b.ID] {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *Repository) Get(ctx context.Context, id string) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range []Kind{KindTransport, KindHotel} {
		list, err := r.load(ctx, k)
		if err != nil {
			return Record{}, err
		}
		for _, b := range list {
			if b.ID == id {
				return b, nil
			}
		}
	}
	return Record{}, ErrNotFound
}

// Update applies fn to the stored booking id and saves it.
func (r *Repository) Update(ctx context.Context, id string, fn func(*Record)) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range []Kind{KindTransport, KindHotel} {
		list, err := r.load(ctx, k)
		if err != nil {
			return Record{}, err
		}
		for i := range list {
			if list[i].ID != id {
				continue
			}
			fn(&list[i])
			if err := store.WriteJSON(ctx, r.kv, keyFor(k), list); err != nil {
				return Record{}, err
			}
			return list[i], nil
		}
	}
	return Record{}, ErrNotFound
}

// SetStatus moves a booking to any status, whatever the current one is.
func (r *Repository) SetStatus(ctx context.Context, id string, status Status) (Record, error) {
	if !IsStatus(string(status)) {
		return Record{}, fmt.Errorf("invalid status %q", status)
	}
	return r.Update(ctx, id, func(b *Record) {
		b.Status = status
	})
}
