package booking

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/yeqown/go-qrcode"
)

// WriteQRCode renders a QR code for the booking into dir and returns the
// file path. The code carries the booking id, kind and guest.
func WriteQRCode(b Record, dir string) (string, error) {
	raw, err := json.Marshal(map[string]any{
		"bookingId": b.ID,
		"kind":      b.Kind,
		"guest":     b.GuestName,
		"date":      b.Date,
	})
	if err != nil {
		return "", err
	}
	qrc, err := qrcode.New(string(raw))
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("booking-%s.jpeg", b.ID))
	if err := qrc.Save(path); err != nil {
		log.Printf("Could not save qrcode to file [%s]: %s\n", path, err.Error())
		return "", err
	}
	return path, nil
}
