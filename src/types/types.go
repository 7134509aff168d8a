package types

import (
	"sltourism/src/booking"

	"github.com/shopspring/decimal"
)

// JSONB is an event payload as it travels over the bus and its remotes.
type JSONB map[string]any

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// PictureRequestBody is the admin form for a new or edited picture. The
// image may come as a data URI in Image or as a multipart file named "image".
type PictureRequestBody struct {
	Name         string `json:"name" form:"name"`
	Category     string `json:"category" form:"category" binding:"omitempty,category"`
	Description  string `json:"description" form:"description"`
	ImageURL     string `json:"imageUrl" form:"imageUrl" binding:"omitempty,imageurl"`
	ThumbnailURL string `json:"thumbnailUrl" form:"thumbnailUrl" binding:"omitempty,imageurl"`
	Image        string `json:"image" form:"-"`
	IsActive     *bool  `json:"isActive" form:"isActive"`
}

// PictureEditBody is the admin edit form. Unknown fields such as imageUrl
// are ignored.
type PictureEditBody struct {
	Name        string `json:"name"`
	Category    string `json:"category" binding:"omitempty,category"`
	Description string `json:"description"`
}

type PictureURIParams struct {
	ID string `uri:"id" binding:"required"`
}

type DeletePictureQuery struct {
	Hard bool `form:"hard"`
}

type GalleryQuery struct {
	Category string `form:"category"`
}

type CarouselSelectBody struct {
	Index    *int   `json:"index" binding:"required"`
	Category string `json:"category"`
}

type CarouselOrderBody struct {
	IDs []string `json:"ids" binding:"required,dive,required"`
}

type RecordsBody []map[string]any

type SetBookingStatusBody struct {
	Status string `json:"status" binding:"required,bookingstatus"`
}

type BookingURIParams struct {
	ID string `uri:"id" binding:"required"`
}

type QuoteRequestBody struct {
	Pickup      booking.Location `json:"pickup"`
	Destination booking.Location `json:"destination"`
	VehicleType string           `json:"vehicleType" binding:"omitempty,max=32"`
}

// BookingRequestBody is stored as sent. Only the quote inputs are checked.
type BookingRequestBody struct {
	QuoteRequestBody
	Service    string `json:"service"`
	Location   string `json:"location"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	GuestName  string `json:"guestName"`
	GuestEmail string `json:"guestEmail"`
}

type HotelBookingRequestBody struct {
	HotelID    string          `json:"hotelId"`
	RoomID     string          `json:"roomId"`
	Location   string          `json:"location"`
	Date       string          `json:"date"`
	Price      decimal.Decimal `json:"price"`
	GuestName  string          `json:"guestName"`
	GuestEmail string          `json:"guestEmail"`
}
