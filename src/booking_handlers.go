package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"sltourism/src/boot"
	"sltourism/src/booking"
	"sltourism/src/config"
	"sltourism/src/lib"
	"sltourism/src/lib/mailer"
	"sltourism/src/types"

	"github.com/gin-gonic/gin"
	"google.golang.org/api/calendar/v3"
)

func hasLocation(l booking.Location) bool {
	return l.Point != nil || strings.TrimSpace(l.Address) != ""
}

// quote resolves both ends of the trip and prices it.
func quote(ctx context.Context, g booking.Geocoder, body types.QuoteRequestBody) (booking.Quote, booking.Point, booking.Point, int, error) {
	pickup, err := body.Pickup.Resolve(ctx, g)
	if err != nil {
		return booking.Quote{}, pickup, pickup, geocodeStatus(err), fmt.Errorf("pickup: %w", err)
	}
	destination, err := body.Destination.Resolve(ctx, g)
	if err != nil {
		return booking.Quote{}, pickup, destination, geocodeStatus(err), fmt.Errorf("destination: %w", err)
	}
	return booking.NewQuote(pickup, destination, body.VehicleType), pickup, destination, http.StatusOK, nil
}

func geocodeStatus(err error) int {
	switch {
	case errors.Is(err, booking.ErrNoLocation):
		return http.StatusBadRequest
	case errors.Is(err, lib.ErrNoGeocodeResult):
		return http.StatusUnprocessableEntity
	}
	log.Printf("[booking] Geocoding failed: %s\n", err.Error())
	return http.StatusBadGateway
}

func sendConfirmation(ctx context.Context, b booking.Record) {
	if strings.TrimSpace(b.GuestEmail) == "" {
		return
	}
	body, err := booking.ConfirmationBody(b)
	if err != nil {
		log.Printf("[booking] Could not render confirmation for %s: %s\n", b.ID, err.Error())
		return
	}
	if err := mailer.Send(ctx, &lib.SendMailInput{
		To:      []string{b.GuestEmail},
		Subject: fmt.Sprintf("Your Sri Lanka booking %s", b.ID),
		Body:    body,
		Html:    true,
	}); err != nil {
		log.Printf("[booking] Could not mail confirmation for %s: %s\n", b.ID, err.Error())
	}
}

const colomboTZ = "Asia/Colombo"

// calendarEvent turns a booking into a calendar entry. Transport bookings
// with a time get a two hour slot, everything else is all-day. Bookings
// without a usable date give nil.
func calendarEvent(b booking.Record) *calendar.Event {
	day, err := time.Parse(time.DateOnly, strings.TrimSpace(b.Date))
	if err != nil {
		return nil
	}
	e := &calendar.Event{
		Summary:     fmt.Sprintf("%s booking: %s", b.Kind, b.GuestName),
		Description: fmt.Sprintf("Booking %s\nGuest: %s <%s>\nStatus: %s", b.ID, b.GuestName, b.GuestEmail, b.Status),
		Location:    b.Location,
	}
	if b.Service != "" {
		e.Summary = fmt.Sprintf("%s: %s", b.Service, b.GuestName)
	}
	if at, err := time.Parse("15:04", strings.TrimSpace(b.Time)); err == nil && b.Kind == booking.KindTransport {
		loc, err := time.LoadLocation(colomboTZ)
		if err != nil {
			loc = time.FixedZone("IST", 5*3600+1800)
		}
		start := time.Date(day.Year(), day.Month(), day.Day(), at.Hour(), at.Minute(), 0, 0, loc)
		e.Start = &calendar.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: colomboTZ}
		e.End = &calendar.EventDateTime{DateTime: start.Add(2 * time.Hour).Format(time.RFC3339), TimeZone: colomboTZ}
		return e
	}
	e.Start = &calendar.EventDateTime{Date: day.Format(time.DateOnly)}
	e.End = &calendar.EventDateTime{Date: day.AddDate(0, 0, 1).Format(time.DateOnly)}
	return e
}

func addToCalendar(b booking.Record) {
	if config.GOOGLE_CALENDAR_ID == "" {
		return
	}
	e := calendarEvent(b)
	if e == nil {
		log.Printf("[booking] %s has no usable date, not added to calendar\n", b.ID)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := lib.GAPIAddEvent(ctx, config.GOOGLE_CALENDAR_ID, e); err != nil {
		log.Printf("[booking] Could not add %s to calendar: %s\n", b.ID, err.Error())
	}
}

func bookingHandlers(g *gin.RouterGroup, s *boot.Services) {
	g.
		POST("/quotes", func(ctx *gin.Context) {
			var body types.QuoteRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			q, _, _, status, err := quote(ctx, s.Geocoder, body)
			if err != nil {
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"quote":   q,
				"fare":    booking.FormatAmount(q.Fare),
				"deposit": booking.FormatAmount(q.Deposit),
			})
		}).
		POST("/bookings", func(ctx *gin.Context) {
			var body types.BookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			rec := booking.Record{
				Kind:        booking.KindTransport,
				Service:     body.Service,
				Location:    body.Location,
				Date:        body.Date,
				Time:        body.Time,
				VehicleType: body.VehicleType,
				GuestName:   body.GuestName,
				GuestEmail:  body.GuestEmail,
			}
			if hasLocation(body.Pickup) && hasLocation(body.Destination) {
				q, pickup, destination, status, err := quote(ctx, s.Geocoder, body.QuoteRequestBody)
				if err != nil {
					ctx.JSON(status, gin.H{"error": err.Error()})
					return
				}
				rec.Pickup = &pickup
				rec.Destination = &destination
				rec.ApplyQuote(q)
			}
			saved, err := s.Bookings.Create(ctx, rec, time.Now())
			if err != nil {
				log.Printf("[booking] Could not save booking: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			sendConfirmation(ctx, saved)
			go addToCalendar(saved)
			ctx.JSON(http.StatusCreated, gin.H{"booking": saved})
		}).
		POST("/hotel-bookings", func(ctx *gin.Context) {
			var body types.HotelBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			saved, err := s.Bookings.Create(ctx, booking.Record{
				Kind:       booking.KindHotel,
				HotelID:    body.HotelID,
				RoomID:     body.RoomID,
				Location:   body.Location,
				Date:       body.Date,
				Price:      body.Price,
				GuestName:  body.GuestName,
				GuestEmail: body.GuestEmail,
			}, time.Now())
			if err != nil {
				log.Printf("[booking] Could not save hotel booking: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			sendConfirmation(ctx, saved)
			go addToCalendar(saved)
			ctx.JSON(http.StatusCreated, gin.H{"booking": saved})
		}).
		GET("/bookings/:id/qrcode", func(ctx *gin.Context) {
			var params types.BookingURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			rec, err := s.Bookings.Get(ctx, params.ID)
			if errors.Is(err, booking.ErrNotFound) {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			filePath, err := booking.WriteQRCode(rec, s.TempDir)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.File(filePath)
		})
}

func bookingAdminHandlers(g *gin.RouterGroup, s *boot.Services) {
	g.
		GET("/bookings", func(ctx *gin.Context) {
			var query struct {
				Kind  string `form:"kind" binding:"omitempty,oneof=transport hotel"`
				Email string `form:"email" binding:"omitempty,email"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var (
				list []booking.Record
				err  error
			)
			if query.Email != "" {
				list, err = s.Bookings.ForGuest(ctx, query.Email)
			} else {
				list, err = s.Bookings.List(ctx, booking.Kind(query.Kind))
			}
			if err != nil {
				log.Printf("[booking] Could not list bookings: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": list, "count": len(list)})
		}).
		PUT("/bookings/:id/status", func(ctx *gin.Context) {
			var params types.BookingURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.SetBookingStatusBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			rec, err := s.Bookings.SetStatus(ctx, params.ID, booking.Status(body.Status))
			if errors.Is(err, booking.ErrNotFound) {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"booking": rec})
		}).
		POST("/bookings/:id/deposit", func(ctx *gin.Context) {
			var params types.BookingURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			rec, err := s.Bookings.Get(ctx, params.ID)
			if errors.Is(err, booking.ErrNotFound) {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if !rec.Deposit.IsPositive() {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "booking has no deposit to collect"})
				return
			}
			sessionID, url, err := lib.CreateDepositCheckout(ctx, lib.DepositCheckoutInput{
				BookingID:   rec.ID,
				Description: fmt.Sprintf("Deposit for %s booking %s", rec.Kind, rec.ID),
				Email:       rec.GuestEmail,
				Amount:      rec.Deposit,
			})
			if err != nil {
				ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			rec, err = s.Bookings.Update(ctx, rec.ID, func(r *booking.Record) {
				r.CheckoutURL = url
			})
			if err != nil {
				log.Printf("[booking] Could not store checkout url for %s: %s\n", params.ID, err.Error())
			}
			ctx.JSON(http.StatusOK, gin.H{"sessionId": sessionID, "url": url, "booking": rec})
		})
}
