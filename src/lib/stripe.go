package lib

import (
	"context"
	"fmt"
	"log"

	"sltourism/src/config"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	sc := stripe.NewClient(config.STRIPE_SECRET_KEY)
	stripeClient = sc

	return sc
}

type DepositCheckoutInput struct {
	BookingID   string
	Description string
	Email       string
	Amount      decimal.Decimal
	Currency    string
}

// CreateDepositCheckout opens a hosted checkout for a booking deposit and
// returns the session id and its URL.
func CreateDepositCheckout(ctx context.Context, in DepositCheckoutInput) (string, string, error) {
	sc := GetStripeClient()
	currency := in.Currency
	if currency == "" {
		currency = "usd"
	}
	cents := in.Amount.Shift(2).Round(0).IntPart()
	metadata := map[string]string{"bookingId": in.BookingID}
	params := stripe.CheckoutSessionCreateParams{
		SuccessURL: stripe.String(fmt.Sprintf("%s/bookings/%s/deposit/success", config.APP_HOST, in.BookingID)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/bookings/%s", config.APP_HOST, in.BookingID)),
		UIMode:     stripe.String("hosted"),
		Mode:       stripe.String("payment"),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(cents),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name: stripe.String(in.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: metadata,
	}
	if in.Email != "" {
		params.CustomerEmail = stripe.String(in.Email)
	}
	cs, err := sc.V1CheckoutSessions.Create(ctx, &params)
	if err != nil {
		log.Printf("[stripe] Deposit checkout for %s failed: %s\n", in.BookingID, err.Error())
		return "", "", err
	}
	return cs.ID, cs.URL, nil
}
