package main

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"sltourism/src/boot"
	"sltourism/src/gallery"
	"sltourism/src/lib"
	"sltourism/src/types"
	"sltourism/src/utils"

	"github.com/gin-gonic/gin"
)

var errImageRequired = errors.New("an image file, data URI or imageUrl is required")

// uploadImage stores the picture's image from a multipart file, a data URI
// or takes a plain URL, in that order of preference.
func uploadImage(ctx *gin.Context, up lib.Uploader, body *types.PictureRequestBody) (lib.UploadResult, int, error) {
	if fh, err := ctx.FormFile("image"); err == nil {
		ext, err := utils.ImageExt(fh.Filename)
		if err != nil {
			return lib.UploadResult{}, http.StatusBadRequest, err
		}
		f, err := fh.Open()
		if err != nil {
			return lib.UploadResult{}, http.StatusBadRequest, err
		}
		defer f.Close()
		contentType := fh.Header.Get("Content-Type")
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = utils.ImageContentType(fh.Filename)
		}
		return doUpload(ctx, up, utils.ObjectKey(body.Name, ext), contentType, f)
	}

	if strings.TrimSpace(body.Image) != "" {
		contentType, data, err := utils.DecodeDataURI(body.Image)
		if err != nil {
			return lib.UploadResult{}, http.StatusBadRequest, err
		}
		ext, err := utils.ExtForContentType(contentType)
		if err != nil {
			return lib.UploadResult{}, http.StatusBadRequest, err
		}
		return doUpload(ctx, up, utils.ObjectKey(body.Name, ext), contentType, bytes.NewReader(data))
	}

	if body.ImageURL != "" || body.ThumbnailURL != "" {
		return lib.UploadResult{Provider: "url", URL: body.ImageURL, ThumbnailURL: body.ThumbnailURL}, http.StatusOK, nil
	}
	return lib.UploadResult{}, http.StatusBadRequest, errImageRequired
}

func doUpload(ctx *gin.Context, up lib.Uploader, key, contentType string, r io.Reader) (lib.UploadResult, int, error) {
	res, err := up.Upload(ctx, key, contentType, r)
	if err != nil {
		log.Printf("[pictures] Upload of %s failed: %s\n", key, err.Error())
		return lib.UploadResult{}, http.StatusBadGateway, err
	}
	return res, http.StatusOK, nil
}

func pictureInput(body types.PictureRequestBody) gallery.PictureInput {
	return gallery.PictureInput{
		Name:         body.Name,
		Category:     body.Category,
		Description:  body.Description,
		ImageURL:     body.ImageURL,
		ThumbnailURL: body.ThumbnailURL,
		IsActive:     body.IsActive,
	}
}

func publishGalleryUpdate(ctx *gin.Context, s *boot.Services, payload types.JSONB) {
	if err := s.Bus.Publish(ctx, lib.EventGalleryUpdate, payload); err != nil {
		log.Printf("[pictures] %s: %s\n", lib.EventGalleryUpdate, err.Error())
	}
}

func pictureHandlers(g *gin.RouterGroup, s *boot.Services) {
	g.
		GET("/pictures", func(ctx *gin.Context) {
			res, err := s.Syncer.Reconcile(ctx)
			if err != nil {
				log.Printf("[pictures] Could not load pictures: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"pictures": res.Sorted(), "count": res.Count})
		}).
		POST("/pictures", func(ctx *gin.Context) {
			var body types.PictureRequestBody
			if err := ctx.ShouldBind(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			uploaded, status, err := uploadImage(ctx, s.Uploader, &body)
			if err != nil {
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			in := pictureInput(body)
			in.ImageURL = uploaded.URL
			in.ThumbnailURL = uploaded.ThumbnailURL
			rec := gallery.NewPicture(in, time.Now())

			if _, err := s.Syncer.Mutate(ctx, func(records map[string]gallery.PictureRecord) error {
				records[rec.ID] = rec
				return nil
			}); err != nil {
				log.Printf("[pictures] Could not save %s: %s\n", rec.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			publishGalleryUpdate(ctx, s, types.JSONB{"id": rec.ID, "action": "create"})
			ctx.JSON(http.StatusCreated, gin.H{"picture": rec})
		}).
		PUT("/pictures/:id", func(ctx *gin.Context) {
			var params types.PictureURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.PictureEditBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			edit := gallery.PictureEdit{Name: body.Name, Category: body.Category, Description: body.Description}
			var updated gallery.PictureRecord
			_, err := s.Syncer.Mutate(ctx, func(records map[string]gallery.PictureRecord) error {
				rec, ok := records[params.ID]
				if !ok {
					return gallery.ErrNotFound
				}
				updated = edit.Apply(rec)
				records[params.ID] = updated
				return nil
			})
			if errors.Is(err, gallery.ErrNotFound) {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			if err != nil {
				log.Printf("[pictures] Could not update %s: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			publishGalleryUpdate(ctx, s, types.JSONB{"id": params.ID, "action": "update"})
			ctx.JSON(http.StatusOK, gin.H{"picture": updated})
		}).
		DELETE("/pictures/:id", func(ctx *gin.Context) {
			var params types.PictureURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var query types.DeletePictureQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			if query.Hard {
				report := s.Syncer.HardDelete(ctx, params.ID)
				if !report.Found() {
					ctx.JSON(http.StatusNotFound, gin.H{"error": gallery.ErrNotFound.Error(), "report": report})
					return
				}
				publishGalleryUpdate(ctx, s, types.JSONB{"id": params.ID, "action": "delete"})
				ctx.JSON(http.StatusOK, gin.H{"report": report})
				return
			}

			rec, err := s.Syncer.SoftDelete(ctx, params.ID)
			if errors.Is(err, gallery.ErrNotFound) {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			if err != nil {
				log.Printf("[pictures] Could not hide %s: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			publishGalleryUpdate(ctx, s, types.JSONB{"id": params.ID, "action": "hide"})
			ctx.JSON(http.StatusOK, gin.H{"picture": rec})
		}).
		POST("/sync", func(ctx *gin.Context) {
			report, err := s.Syncer.Sync(ctx)
			if err != nil {
				log.Printf("[pictures] Manual sync failed: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "count": report.Count})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"count": report.Count, "changed": report.Changed})
		})
}
