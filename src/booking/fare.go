package booking

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const earthRadiusKm = 6371.0

// DepositRate is the share of the fare collected up front.
const DepositRate = 0.3

type Point struct {
	Lat float64 `json:"lat" binding:"gte=-90,lte=90"`
	Lng float64 `json:"lng" binding:"gte=-180,lte=180"`
}

// Haversine returns the great-circle distance in kilometres.
func Haversine(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

type Rate struct {
	Base  float64 `json:"base"`
	PerKm float64 `json:"perKm"`
}

const DefaultVehicle = "sedan"

var Rates = map[string]Rate{
	"sedan":  {Base: 20, PerKm: 0.8},
	"suv":    {Base: 30, PerKm: 1.0},
	"van":    {Base: 35, PerKm: 1.2},
	"luxury": {Base: 50, PerKm: 1.5},
}

// RateFor returns the vehicle's rate and the vehicle it resolved to.
// Unknown vehicles are charged as a sedan.
func RateFor(vehicle string) (Rate, string) {
	v := strings.ToLower(strings.TrimSpace(vehicle))
	if r, ok := Rates[v]; ok {
		return r, v
	}
	return Rates[DefaultVehicle], DefaultVehicle
}

type Quote struct {
	VehicleType string  `json:"vehicleType"`
	DistanceKm  float64 `json:"distanceKm"`
	Fare        float64 `json:"fare"`
	Deposit     float64 `json:"deposit"`
	Currency    string  `json:"currency"`
}

func NewQuote(pickup, destination Point, vehicle string) Quote {
	rate, v := RateFor(vehicle)
	km := Haversine(pickup, destination)
	fare := Round2(rate.Base + km*rate.PerKm)
	return Quote{
		VehicleType: v,
		DistanceKm:  Round2(km),
		Fare:        fare,
		Deposit:     Deposit(fare),
		Currency:    "USD",
	}
}

func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func Deposit(fare float64) float64 {
	return Round2(fare * DepositRate)
}

// FormatAmount renders an amount with exactly two decimals.
func FormatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
