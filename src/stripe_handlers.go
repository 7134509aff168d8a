package main

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"sltourism/src/boot"
	"sltourism/src/booking"
	"sltourism/src/config"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// stripeWebhookRoute confirms bookings whose deposit checkout was paid.
func stripeWebhookRoute(g *gin.Engine, s *boot.Services) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/webhook/stripe", func(ctx *gin.Context) {
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			log.Printf("Error reading request body: %s\n", err.Error())
			ctx.Status(http.StatusServiceUnavailable)
			return
		}
		event, err := webhook.ConstructEventWithOptions(payload, ctx.GetHeader("Stripe-Signature"), config.STRIPE_WEBHOOK_SECRET,
			webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
		if err != nil {
			log.Printf("Error verifying webhook signature: %s\n", err.Error())
			ctx.Status(http.StatusBadRequest)
			return
		}
		log.Printf("[StripeEvent] %s\n", event.Type)
		switch event.Type {
		case "checkout.session.completed":
			var cs stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
				log.Printf("[Stripe] Error parsing CheckoutSession: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			bookingID := cs.Metadata["bookingId"]
			log.Printf("[CheckoutSession] ID: %s %s booking=%s\n", cs.ID, cs.PaymentStatus, bookingID)
			if bookingID == "" || cs.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
				break
			}
			if _, err := s.Bookings.SetStatus(ctx, bookingID, booking.StatusConfirmed); err != nil {
				log.Printf("Error confirming booking %s: %s\n", bookingID, err.Error())
				if errors.Is(err, booking.ErrNotFound) {
					break
				}
				ctx.Status(http.StatusInternalServerError)
				return
			}
		case "checkout.session.expired":
			var cs stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &cs); err == nil {
				log.Printf("[CheckoutSession] %s expired for booking %s\n", cs.ID, cs.Metadata["bookingId"])
			}
		default:
			log.Printf("Unhandled event type: %s\n", event.Type)
		}
		ctx.Status(http.StatusOK)
	})
	return apiv1
}
