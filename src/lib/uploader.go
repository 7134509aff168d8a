package lib

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"sltourism/src/config"
	"sltourism/src/utils"
)

type UploadResult struct {
	Provider     string `json:"provider"`
	Key          string `json:"key"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// Uploader stores an image somewhere addressable by URL.
type Uploader interface {
	Upload(ctx context.Context, name string, contentType string, r io.Reader) (UploadResult, error)
}

// InlineUploader keeps the image in the record itself as a data URI.
type InlineUploader struct{}

func (InlineUploader) Upload(_ context.Context, name string, contentType string, r io.Reader) (UploadResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return UploadResult{}, err
	}
	uri := utils.DataURI(contentType, data)
	return UploadResult{Provider: "inline", Key: name, URL: uri, ThumbnailURL: uri}, nil
}

const cloudinaryEndpoint = "https://api.cloudinary.com/v1_1/%s/image/upload"

// CloudinaryUploader posts unsigned uploads with an upload preset.
type CloudinaryUploader struct {
	CloudName string
	Preset    string
	Endpoint  string
	Client    *http.Client
}

func NewCloudinaryUploader() *CloudinaryUploader {
	return &CloudinaryUploader{
		CloudName: config.CLOUDINARY_CLOUD_NAME,
		Preset:    config.CLOUDINARY_UPLOAD_PRESET,
		Client:    http.DefaultClient,
	}
}

type cloudinaryResponse struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *CloudinaryUploader) Upload(ctx context.Context, name string, contentType string, r io.Reader) (UploadResult, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("upload_preset", c.Preset); err != nil {
		return UploadResult{}, err
	}
	publicID := strings.TrimSuffix(name, extOf(name))
	if err := w.WriteField("public_id", publicID); err != nil {
		return UploadResult{}, err
	}
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return UploadResult{}, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return UploadResult{}, err
	}
	if err := w.Close(); err != nil {
		return UploadResult{}, err
	}

	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf(cloudinaryEndpoint, c.CloudName)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		log.Printf("[cloudinary] Upload failed: %s\n", err.Error())
		return UploadResult{}, err
	}
	defer res.Body.Close()

	var out cloudinaryResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return UploadResult{}, fmt.Errorf("cloudinary: status %d: %w", res.StatusCode, err)
	}
	if res.StatusCode >= 300 || out.SecureURL == "" {
		msg := res.Status
		if out.Error != nil {
			msg = out.Error.Message
		}
		return UploadResult{}, fmt.Errorf("cloudinary: %s", msg)
	}
	return UploadResult{
		Provider:     "cloudinary",
		Key:          out.PublicID,
		URL:          out.SecureURL,
		ThumbnailURL: strings.Replace(out.SecureURL, "/image/upload/", "/image/upload/c_fill,w_400,h_300/", 1),
	}, nil
}

func extOf(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 && !strings.Contains(name[i:], "/") {
		return name[i:]
	}
	return ""
}
