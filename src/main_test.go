package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sltourism/src/boot"
	"sltourism/src/booking"
	"sltourism/src/config"
	"sltourism/src/controllers"
	"sltourism/src/db"
	"sltourism/src/gallery"
	"sltourism/src/lib"
	"sltourism/src/store"
	"sltourism/src/types"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/stripe/stripe-go/v82/webhook"
	"github.com/tidwall/gjson"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "ayubowan"
	webhookSecret = "whsec_test"
	// 1x1 transparent PNG
	pixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="
)

var (
	colombo = booking.Point{Lat: 6.9271, Lng: 79.8612}
	kandy   = booking.Point{Lat: 7.2906, Lng: 80.6337}
)

type stubGeocoder map[string]booking.Point

func (g stubGeocoder) Geocode(_ context.Context, address string) (float64, float64, error) {
	p, ok := g[strings.ToLower(address)]
	if !ok {
		return 0, 0, lib.ErrNoGeocodeResult
	}
	return p.Lat, p.Lng, nil
}

type failingUploader struct{}

func (failingUploader) Upload(context.Context, string, string, io.Reader) (lib.UploadResult, error) {
	return lib.UploadResult{}, errors.New("cloudinary: Upload preset not found")
}

type TestSuite struct {
	suite.Suite
	Services *boot.Services
	Router   *gin.Engine
	Token    string
	events   []lib.Event
}

func (s *TestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	registerValidators()
	config.JWT_SECRET = "test-secret"
	config.STRIPE_WEBHOOK_SECRET = webhookSecret
	config.MAIL_PROVIDER = ""
}

func (s *TestSuite) SetupTest() {
	ctx := context.Background()
	d, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	s.Require().NoError(err)
	sqlDB, err := d.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.Require().NoError(db.Migrate(d))

	kv := store.NewKeyValue(store.NewMemoryStore())
	s.Require().NoError(controllers.SeedAdmin(ctx, kv, adminEmail, adminPassword))

	bus := lib.NewBus()
	s.events = nil
	for _, e := range []lib.Event{lib.EventGalleryUpdate, lib.EventGalleryRefresh, lib.EventPicturesSynced, lib.EventHotelsUpdate, lib.EventAccommodationsUpdate} {
		bus.Subscribe(e, func(types.JSONB) { s.events = append(s.events, e) })
	}
	objects := store.NewObjectStore(d)
	s.Services = &boot.Services{
		KV:        kv,
		Objects:   objects,
		Bus:       bus,
		Syncer:    gallery.NewSyncer(kv, gallery.Options{Objects: objects, Notify: bus}),
		Carousels: gallery.NewCarousels(nil, time.Second),
		Bookings:  booking.NewRepository(kv),
		Uploader:  lib.InlineUploader{},
		Geocoder:  stubGeocoder{"colombo fort": colombo, "kandy": kandy},
		TempDir:   s.T().TempDir(),
	}
	s.Router = setupRouter(s.Services)
	s.Token = s.login()
}

func (s *TestSuite) do(method, target string, body any, auth bool) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		r = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, target, r)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.Token))
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func (s *TestSuite) login() string {
	w := s.do("POST", "/api/v1/auth/login", map[string]any{"email": adminEmail, "password": adminPassword}, false)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	token := gjson.Get(w.Body.String(), "token").String()
	s.Require().NotEmpty(token)
	return token
}

func (s *TestSuite) upload(name, category string) string {
	w := s.do("POST", "/api/v1/pictures", map[string]any{
		"name":     name,
		"category": category,
		"image":    "data:image/png;base64," + pixelPNG,
	}, true)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return gjson.Get(w.Body.String(), "picture.id").String()
}

func (s *TestSuite) TestPingRoute() {
	w := s.do("GET", "/", nil, false)
	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestMaintenanceMode() {
	s.T().Setenv("MAINTENANCE_MODE", "true")

	w := s.do("GET", "/api/v1/gallery", nil, false)
	assert.Equal(s.T(), 503, w.Code)
	assert.Equal(s.T(), "server is under maintenance", gjson.Get(w.Body.String(), "error").String())
}

func (s *TestSuite) TestAuthRoutes() {
	s.Run("Should reject a wrong password", func() {
		w := s.do("POST", "/api/v1/auth/login", map[string]any{"email": adminEmail, "password": "nope"}, false)
		assert.Equal(s.T(), 401, w.Code)
		assert.Equal(s.T(), controllers.ErrInvalidCredentials.Error(), gjson.Get(w.Body.String(), "error").String())
	})

	s.Run("Should reject a malformed body", func() {
		w := s.do("POST", "/api/v1/auth/login", map[string]any{"email": "not-an-email"}, false)
		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should record the current user", func() {
		raw, ok, err := s.Services.KV.Get(context.Background(), store.KeyCurrentUser)
		s.Require().NoError(err)
		s.Require().True(ok)
		assert.Equal(s.T(), adminEmail, gjson.Get(raw, "email").String())
	})

	s.Run("Should protect admin routes", func() {
		w := s.do("GET", "/api/v1/pictures", nil, false)
		assert.Equal(s.T(), 401, w.Code)

		req, _ := http.NewRequest("GET", "/api/v1/pictures", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		w = httptest.NewRecorder()
		s.Router.ServeHTTP(w, req)
		assert.Equal(s.T(), 401, w.Code)

		w = s.do("GET", "/admin/pictures", nil, false)
		assert.Equal(s.T(), 401, w.Code)
	})
}

func (s *TestSuite) TestUploadShowsInFilteredGallery() {
	s.upload("Test Beach", "Beach")
	s.upload("Temple of the Tooth", "Traditional")

	w := s.do("GET", "/api/v1/gallery?category=beach", nil, false)
	s.Require().Equal(200, w.Code)
	body := w.Body.String()
	assert.Equal(s.T(), int64(1), gjson.Get(body, "count").Int())
	assert.Equal(s.T(), "Test Beach", gjson.Get(body, "pictures.0.name").String())
	assert.Equal(s.T(), "beach", gjson.Get(body, "pictures.0.category").String())
	assert.True(s.T(), strings.HasPrefix(gjson.Get(body, "pictures.0.imageUrl").String(), "data:image/png;base64,"))

	w = s.do("GET", "/api/v1/gallery?category=culture", nil, false)
	assert.Equal(s.T(), "Temple of the Tooth", gjson.Get(w.Body.String(), "pictures.0.name").String())

	w = s.do("GET", "/api/v1/gallery", nil, false)
	assert.Equal(s.T(), int64(2), gjson.Get(w.Body.String(), "count").Int())

	rows, err := s.Services.Objects.Records(context.Background())
	s.Require().NoError(err)
	assert.Len(s.T(), rows, 2, "uploads reach the object store")
	assert.Contains(s.T(), s.events, lib.EventGalleryUpdate)
	assert.Contains(s.T(), s.events, lib.EventPicturesSynced)
}

func (s *TestSuite) TestMultipartUpload() {
	send := func(filename string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		mw.WriteField("name", "Nine Arch Bridge")
		mw.WriteField("category", "Landscape")
		fw, err := mw.CreateFormFile("image", filename)
		s.Require().NoError(err)
		fw.Write([]byte("\x89PNG"))
		s.Require().NoError(mw.Close())

		req, _ := http.NewRequest("POST", "/api/v1/pictures", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+s.Token)
		w := httptest.NewRecorder()
		s.Router.ServeHTTP(w, req)
		return w
	}

	w := send("ella.png")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(s.T(), "scenery", gjson.Get(w.Body.String(), "picture.category").String())

	w = send("ella.gif")
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	assert.Contains(s.T(), gjson.Get(w.Body.String(), "error").String(), "WEBP")
}

func (s *TestSuite) TestUploadFailures() {
	s.Run("Should require an image", func() {
		w := s.do("POST", "/api/v1/pictures", map[string]any{"name": "Nothing"}, true)
		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should report provider errors as bad gateway", func() {
		s.Services.Uploader = failingUploader{}
		w := s.do("POST", "/api/v1/pictures", map[string]any{
			"name":  "Sigiriya",
			"image": "data:image/png;base64," + pixelPNG,
		}, true)
		assert.Equal(s.T(), http.StatusBadGateway, w.Code)
		assert.Contains(s.T(), gjson.Get(w.Body.String(), "error").String(), "Upload preset not found")
	})
}

func (s *TestSuite) TestEditAndDeletePictures() {
	id := s.upload("Test Beach", "Beach")

	s.Run("Should edit name and category", func() {
		w := s.do("PUT", "/api/v1/pictures/"+id, map[string]any{"name": "Unawatuna", "category": "Sea"}, true)
		s.Require().Equal(200, w.Code, w.Body.String())
		assert.Equal(s.T(), "Unawatuna", gjson.Get(w.Body.String(), "picture.name").String())
		assert.Equal(s.T(), "beach", gjson.Get(w.Body.String(), "picture.category").String())

		w = s.do("PUT", "/api/v1/pictures/missing", map[string]any{"name": "x"}, true)
		assert.Equal(s.T(), 404, w.Code)
	})

	s.Run("Should keep image URLs and visibility on edit", func() {
		before := s.do("GET", "/api/v1/pictures", nil, true)
		imageURL := gjson.Get(before.Body.String(), `pictures.#(id=="`+id+`").imageUrl`).String()
		s.Require().NotEmpty(imageURL)

		w := s.do("PUT", "/api/v1/pictures/"+id, map[string]any{
			"imageUrl":     "https://other.example/x.png",
			"thumbnailUrl": "https://other.example/t.png",
			"isActive":     false,
			"description":  "South coast",
		}, true)
		s.Require().Equal(200, w.Code, w.Body.String())
		assert.Equal(s.T(), imageURL, gjson.Get(w.Body.String(), "picture.imageUrl").String())
		assert.NotEqual(s.T(), "https://other.example/t.png", gjson.Get(w.Body.String(), "picture.thumbnailUrl").String())
		assert.True(s.T(), gjson.Get(w.Body.String(), "picture.isActive").Bool())
		assert.Equal(s.T(), "South coast", gjson.Get(w.Body.String(), "picture.description").String())
	})

	s.Run("Should hide on soft delete", func() {
		w := s.do("DELETE", "/api/v1/pictures/"+id, nil, true)
		s.Require().Equal(200, w.Code)
		assert.False(s.T(), gjson.Get(w.Body.String(), "picture.isActive").Bool())

		w = s.do("GET", "/api/v1/gallery", nil, false)
		assert.Equal(s.T(), int64(0), gjson.Get(w.Body.String(), "count").Int())

		w = s.do("GET", "/api/v1/pictures", nil, true)
		assert.Equal(s.T(), int64(1), gjson.Get(w.Body.String(), "count").Int(), "admins still see hidden pictures")
	})

	s.Run("Should remove everywhere on hard delete", func() {
		w := s.do("DELETE", "/api/v1/pictures/"+id+"?hard=true", nil, true)
		s.Require().Equal(200, w.Code, w.Body.String())
		removed := gjson.Get(w.Body.String(), "report.removed").Array()
		var locations []string
		for _, r := range removed {
			locations = append(locations, r.String())
		}
		assert.Contains(s.T(), locations, store.KeySitePictures)
		assert.Contains(s.T(), locations, gallery.SourceObjectStore)

		w = s.do("GET", "/api/v1/pictures", nil, true)
		assert.Equal(s.T(), int64(0), gjson.Get(w.Body.String(), "count").Int())

		w = s.do("DELETE", "/api/v1/pictures/"+id+"?hard=true", nil, true)
		assert.Equal(s.T(), 404, w.Code)
		w = s.do("DELETE", "/api/v1/pictures/"+id, nil, true)
		assert.Equal(s.T(), 404, w.Code)
	})
}

func (s *TestSuite) TestManualSync() {
	ctx := context.Background()
	s.Require().NoError(s.Services.KV.Set(ctx, store.KeyAdminPictures, `[{"id":"legacy-1","name":"Yala","category":"Animals","url":"https://example.com/yala.jpg"}]`))

	w := s.do("POST", "/api/v1/sync", nil, true)
	s.Require().Equal(200, w.Code)
	assert.Equal(s.T(), int64(1), gjson.Get(w.Body.String(), "count").Int())

	raw, _, err := s.Services.KV.Get(ctx, store.KeySitePictures)
	s.Require().NoError(err)
	assert.Equal(s.T(), "wildlife", gjson.Get(raw, "0.category").String())

	w = s.do("POST", "/api/v1/sync", nil, true)
	assert.Empty(s.T(), gjson.Get(w.Body.String(), "changed").Array(), "a second pass changes nothing")
}

func (s *TestSuite) TestCarousel() {
	first := s.upload("Mirissa", "Beach")
	second := s.upload("Galle Fort", "Culture")
	third := s.upload("Arugam Bay", "Beach")

	s.Run("Should follow the admin order", func() {
		w := s.do("PUT", "/api/v1/carousel", map[string]any{"ids": []string{third, first}}, true)
		s.Require().Equal(200, w.Code, w.Body.String())

		w = s.do("GET", "/api/v1/carousel", nil, false)
		body := w.Body.String()
		assert.Equal(s.T(), third, gjson.Get(body, "items.0.id").String())
		assert.Equal(s.T(), first, gjson.Get(body, "items.1.id").String())
		assert.Equal(s.T(), int64(0), gjson.Get(body, "index").Int())
		assert.Contains(s.T(), s.events, lib.EventGalleryRefresh)
	})

	s.Run("Should wrap the selected index", func() {
		w := s.do("POST", "/api/v1/carousel/select", map[string]any{"index": 3}, false)
		s.Require().Equal(200, w.Code)
		assert.Equal(s.T(), int64(1), gjson.Get(w.Body.String(), "index").Int())
		assert.Equal(s.T(), first, gjson.Get(w.Body.String(), "current").String())

		w = s.do("POST", "/api/v1/carousel/select", map[string]any{}, false)
		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should fall back to the filtered set", func() {
		w := s.do("GET", "/api/v1/carousel?category=culture", nil, false)
		assert.Equal(s.T(), second, gjson.Get(w.Body.String(), "items.0.id").String())
		assert.Equal(s.T(), int64(1), gjson.Get(w.Body.String(), "items.#").Int())
	})

	s.Run("Should keep a position per category", func() {
		w := s.do("POST", "/api/v1/carousel/select", map[string]any{"index": 1, "category": "beach"}, false)
		s.Require().Equal(200, w.Code, w.Body.String())
		assert.Equal(s.T(), first, gjson.Get(w.Body.String(), "current").String())

		s.do("GET", "/api/v1/carousel?category=culture", nil, false)
		s.do("GET", "/api/v1/carousel", nil, false)

		w = s.do("GET", "/api/v1/carousel?category=beach", nil, false)
		assert.Equal(s.T(), int64(1), gjson.Get(w.Body.String(), "index").Int())
		assert.Equal(s.T(), first, gjson.Get(w.Body.String(), "featured.id").String())
	})

	s.Run("Should reject unknown ids", func() {
		w := s.do("PUT", "/api/v1/carousel", map[string]any{"ids": []string{"nope"}}, true)
		assert.Equal(s.T(), http.StatusUnprocessableEntity, w.Code)
	})
}

func (s *TestSuite) TestGalleryPages() {
	s.upload("Test Beach", "Beach")

	w := s.do("GET", "/gallery?category=beach", nil, false)
	s.Require().Equal(200, w.Code)
	html := w.Body.String()
	assert.Contains(s.T(), html, "Test Beach")
	assert.Contains(s.T(), html, "/static/placeholder.svg")
	assert.Contains(s.T(), html, `data-action="select"`)

	w = s.do("GET", "/admin/pictures", nil, true)
	s.Require().Equal(200, w.Code)
	assert.Contains(s.T(), w.Body.String(), "Pictures (1)")

	w = s.do("GET", "/static/placeholder.svg", nil, false)
	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestSampleImagesAreServed() {
	for _, p := range gallery.SamplePictures() {
		for _, u := range []string{p.ImageURL, p.ThumbnailURL} {
			w := s.do("GET", u, nil, false)
			assert.Equal(s.T(), 200, w.Code, u)
			assert.Contains(s.T(), w.Header().Get("Content-Type"), "image/svg+xml", u)
		}
	}
}

func (s *TestSuite) TestQuotes() {
	s.Run("Should price Colombo to Kandy by coordinates", func() {
		w := s.do("POST", "/api/v1/quotes", map[string]any{
			"pickup":      map[string]any{"point": colombo},
			"destination": map[string]any{"point": kandy},
		}, false)
		s.Require().Equal(200, w.Code, w.Body.String())
		body := w.Body.String()
		expected := booking.NewQuote(colombo, kandy, "sedan")
		assert.InDelta(s.T(), 94.8, gjson.Get(body, "quote.distanceKm").Float(), 1.0)
		assert.Equal(s.T(), "sedan", gjson.Get(body, "quote.vehicleType").String())
		assert.Equal(s.T(), booking.FormatAmount(expected.Fare), gjson.Get(body, "fare").String())
		assert.Equal(s.T(), booking.FormatAmount(booking.Round2(expected.Fare*0.3)), gjson.Get(body, "deposit").String())
	})

	s.Run("Should geocode addresses", func() {
		w := s.do("POST", "/api/v1/quotes", map[string]any{
			"pickup":      map[string]any{"address": "Colombo Fort"},
			"destination": map[string]any{"address": "Kandy"},
			"vehicleType": "suv",
		}, false)
		s.Require().Equal(200, w.Code, w.Body.String())
		assert.Equal(s.T(), "suv", gjson.Get(w.Body.String(), "quote.vehicleType").String())
	})

	s.Run("Should reject missing or unknown places", func() {
		w := s.do("POST", "/api/v1/quotes", map[string]any{"destination": map[string]any{"point": kandy}}, false)
		assert.Equal(s.T(), 400, w.Code)

		w = s.do("POST", "/api/v1/quotes", map[string]any{
			"pickup":      map[string]any{"address": "Atlantis"},
			"destination": map[string]any{"point": kandy},
		}, false)
		assert.Equal(s.T(), http.StatusUnprocessableEntity, w.Code)

	})

	s.Run("Should charge unknown vehicles as a sedan", func() {
		w := s.do("POST", "/api/v1/quotes", map[string]any{
			"pickup":      map[string]any{"point": colombo},
			"destination": map[string]any{"point": kandy},
			"vehicleType": "tuk-tuk",
		}, false)
		s.Require().Equal(200, w.Code, w.Body.String())
		expected := booking.NewQuote(colombo, kandy, "sedan")
		assert.Equal(s.T(), "sedan", gjson.Get(w.Body.String(), "quote.vehicleType").String())
		assert.Equal(s.T(), booking.FormatAmount(expected.Fare), gjson.Get(w.Body.String(), "fare").String())

		w = s.do("POST", "/api/v1/bookings", map[string]any{
			"pickup":      map[string]any{"point": colombo},
			"destination": map[string]any{"point": kandy},
			"vehicleType": "tuk-tuk",
			"guestName":   "Kamal",
		}, false)
		s.Require().Equal(201, w.Code, w.Body.String())
		assert.Equal(s.T(), "sedan", gjson.Get(w.Body.String(), "booking.vehicleType").String())
		assert.InDelta(s.T(), expected.Fare, gjson.Get(w.Body.String(), "booking.price").Float(), 0.001)
	})
}

func (s *TestSuite) TestBookings() {
	w := s.do("POST", "/api/v1/bookings", map[string]any{
		"service":     "airport transfer",
		"pickup":      map[string]any{"point": colombo},
		"destination": map[string]any{"point": kandy},
		"date":        "2026-12-24",
		"time":        "09:00",
		"guestName":   "Nimal",
		"guestEmail":  "Nimal@example.com",
	}, false)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	body := w.Body.String()
	id := gjson.Get(body, "booking.id").String()
	assert.Equal(s.T(), "pending", gjson.Get(body, "booking.status").String())
	assert.Equal(s.T(), "transport", gjson.Get(body, "booking.kind").String())

	w = s.do("POST", "/api/v1/hotel-bookings", map[string]any{
		"hotelId":    "h1",
		"roomId":     "r1",
		"date":       "2026-12-24",
		"price":      "120",
		"guestName":  "Nimal",
		"guestEmail": "nimal@example.com",
	}, false)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(s.T(), "36", gjson.Get(w.Body.String(), "booking.deposit").String())

	s.Run("Should list bookings for admins", func() {
		w := s.do("GET", "/api/v1/bookings", nil, true)
		s.Require().Equal(200, w.Code)
		assert.Equal(s.T(), int64(2), gjson.Get(w.Body.String(), "count").Int())

		w = s.do("GET", "/api/v1/bookings?kind=hotel", nil, true)
		assert.Equal(s.T(), int64(1), gjson.Get(w.Body.String(), "count").Int())

		w = s.do("GET", "/api/v1/bookings?email=nimal@example.com", nil, true)
		assert.Equal(s.T(), int64(2), gjson.Get(w.Body.String(), "count").Int())
	})

	s.Run("Should set any status", func() {
		for _, status := range []string{"completed", "pending", "cancelled"} {
			w := s.do("PUT", "/api/v1/bookings/"+id+"/status", map[string]any{"status": status}, true)
			s.Require().Equal(200, w.Code, w.Body.String())
			assert.Equal(s.T(), status, gjson.Get(w.Body.String(), "booking.status").String())
		}
		w := s.do("PUT", "/api/v1/bookings/"+id+"/status", map[string]any{"status": "lost"}, true)
		assert.Equal(s.T(), 400, w.Code)
		w = s.do("PUT", "/api/v1/bookings/missing/status", map[string]any{"status": "pending"}, true)
		assert.Equal(s.T(), 404, w.Code)
	})

	s.Run("Should render a qr code", func() {
		w := s.do("GET", "/api/v1/bookings/"+id+"/qrcode", nil, false)
		assert.Equal(s.T(), 200, w.Code)
		assert.Greater(s.T(), w.Body.Len(), 0)

		w = s.do("GET", "/api/v1/bookings/missing/qrcode", nil, false)
		assert.Equal(s.T(), 404, w.Code)
	})

	s.Run("Should confirm on a paid checkout", func() {
		payload := []byte(fmt.Sprintf(`{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_1","object":"checkout.session","payment_status":"paid","metadata":{"bookingId":%q}}}}`, id))
		signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: payload, Secret: webhookSecret})

		req, _ := http.NewRequest("POST", "/api/v1/webhook/stripe", bytes.NewReader(payload))
		req.Header.Set("Stripe-Signature", signed.Header)
		w := httptest.NewRecorder()
		s.Router.ServeHTTP(w, req)
		s.Require().Equal(200, w.Code)

		rec, err := s.Services.Bookings.Get(context.Background(), id)
		s.Require().NoError(err)
		assert.Equal(s.T(), booking.StatusConfirmed, rec.Status)

		req, _ = http.NewRequest("POST", "/api/v1/webhook/stripe", bytes.NewReader(payload))
		req.Header.Set("Stripe-Signature", "t=1,v1=bad")
		w = httptest.NewRecorder()
		s.Router.ServeHTTP(w, req)
		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestCatalogs() {
	w := s.do("GET", "/api/v1/hotels", nil, false)
	s.Require().Equal(200, w.Code)
	assert.Equal(s.T(), int64(0), gjson.Get(w.Body.String(), "count").Int())

	hotels := []map[string]any{{"id": "h1", "name": "Jetwing Lighthouse", "rooms": 3}}
	w = s.do("PUT", "/api/v1/hotels", hotels, true)
	s.Require().Equal(200, w.Code, w.Body.String())
	assert.Contains(s.T(), s.events, lib.EventHotelsUpdate)

	w = s.do("GET", "/api/v1/hotels", nil, false)
	assert.Equal(s.T(), "Jetwing Lighthouse", gjson.Get(w.Body.String(), "data.0.name").String())
	assert.Equal(s.T(), int64(3), gjson.Get(w.Body.String(), "data.0.rooms").Int())

	w = s.do("PUT", "/api/v1/rooms", []map[string]any{{"name": "no id"}}, true)
	assert.Equal(s.T(), 400, w.Code)

	w = s.do("PUT", "/api/v1/rooms", []map[string]any{{"id": "r1", "hotelId": "h1"}}, true)
	s.Require().Equal(200, w.Code)
	assert.Contains(s.T(), s.events, lib.EventAccommodationsUpdate)

	s.Require().NoError(s.Services.KV.Set(context.Background(), store.KeySiteRooms, "{broken"))
	w = s.do("GET", "/api/v1/rooms", nil, false)
	assert.Equal(s.T(), 200, w.Code, "malformed storage reads as empty")
	assert.Equal(s.T(), int64(0), gjson.Get(w.Body.String(), "count").Int())
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}

func TestCalendarEvent(t *testing.T) {
	e := calendarEvent(booking.Record{
		ID:        "b1",
		Kind:      booking.KindTransport,
		Service:   "Airport transfer",
		Date:      "2025-02-01",
		Time:      "09:30",
		GuestName: "Nimal",
	})
	if assert.NotNil(t, e) {
		assert.Equal(t, "Airport transfer: Nimal", e.Summary)
		assert.Equal(t, "2025-02-01T09:30:00+05:30", e.Start.DateTime)
		assert.Equal(t, "2025-02-01T11:30:00+05:30", e.End.DateTime)
	}

	e = calendarEvent(booking.Record{ID: "b2", Kind: booking.KindHotel, Date: "2025-02-01", GuestName: "Nimal"})
	if assert.NotNil(t, e) {
		assert.Equal(t, "2025-02-01", e.Start.Date)
		assert.Equal(t, "2025-02-02", e.End.Date)
		assert.Empty(t, e.Start.DateTime)
	}

	assert.Nil(t, calendarEvent(booking.Record{ID: "b3", Date: "next tuesday"}))
}
