package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

var ErrUnsupportedImage = errors.New("invalid file type. Allowed: JPG, JPEG, PNG, WEBP")

var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ImageExt returns the lower-cased extension of filename when it is an
// accepted image type.
func ImageExt(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedImageTypes[ext]; !ok {
		return "", ErrUnsupportedImage
	}
	return ext, nil
}

// ImageContentType guesses the MIME type from the extension.
func ImageContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := allowedImageTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// ObjectKey builds a storage key like "pictures/test-beach-1a2b3c4d.png".
func ObjectKey(name, ext string) string {
	base := slug.Make(name)
	if base == "" {
		base = "picture"
	}
	return fmt.Sprintf("pictures/%s-%s%s", base, uuid.NewString()[:8], ext)
}

func DataURI(contentType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))
}

// DecodeDataURI accepts "data:<mime>;base64,<payload>" or a bare base64 payload.
func DecodeDataURI(s string) (string, []byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil, errors.New("empty base64 string")
	}
	contentType := ""
	if strings.HasPrefix(s, "data:") {
		meta, payload, ok := strings.Cut(s, ";base64,")
		if !ok {
			return "", nil, errors.New("data URI is not base64 encoded")
		}
		contentType = strings.TrimPrefix(meta, "data:")
		s = payload
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", nil, fmt.Errorf("decode base64: %w", err)
	}
	return contentType, data, nil
}

// ExtForContentType maps an image MIME type back to an accepted extension.
func ExtForContentType(contentType string) (string, error) {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/webp":
		return ".webp", nil
	}
	return "", ErrUnsupportedImage
}
