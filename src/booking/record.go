package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindTransport Kind = "transport"
	KindHotel     Kind = "hotel"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var Statuses = []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

func IsStatus(s string) bool {
	for _, st := range Statuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

// Record is a transport or hotel reservation. Fields that do not apply to
// the kind stay empty.
type Record struct {
	ID          string          `json:"id"`
	Kind        Kind            `json:"kind"`
	Service     string          `json:"service,omitempty"`
	Location    string          `json:"location,omitempty"`
	Pickup      *Point          `json:"pickup,omitempty"`
	Destination *Point          `json:"destination,omitempty"`
	HotelID     string          `json:"hotelId,omitempty"`
	RoomID      string          `json:"roomId,omitempty"`
	Date        string          `json:"date"`
	Time        string          `json:"time,omitempty"`
	VehicleType string          `json:"vehicleType,omitempty"`
	DistanceKm  float64         `json:"distanceKm,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Deposit     decimal.Decimal `json:"deposit"`
	GuestName   string          `json:"guestName"`
	GuestEmail  string          `json:"guestEmail"`
	Status      Status          `json:"status"`
	CheckoutURL string          `json:"checkoutUrl,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ApplyQuote prices a transport booking from q.
func (r *Record) ApplyQuote(q Quote) {
	r.VehicleType = q.VehicleType
	r.DistanceKm = q.DistanceKm
	r.Price = decimal.NewFromFloat(q.Fare)
	r.Deposit = decimal.NewFromFloat(q.Deposit)
}
