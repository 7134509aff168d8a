package main

import (
	"context"
	"log"
	"net/http"

	"sltourism/src/boot"
	"sltourism/src/gallery"
	"sltourism/src/lib"
	"sltourism/src/store"
	"sltourism/src/types"

	"github.com/gin-gonic/gin"
)

type galleryViewData struct {
	Pictures []gallery.PictureRecord
	Carousel []gallery.PictureRecord
	Index    int
	Featured *gallery.PictureRecord
}

// galleryView reconciles, filters to category and points the carousel at the
// curated entries still in view, or at the whole filtered set when none are.
func galleryView(ctx context.Context, s *boot.Services, category string) (galleryViewData, error) {
	res, err := s.Syncer.Reconcile(ctx)
	if err != nil {
		return galleryViewData{}, err
	}
	view := galleryViewData{Pictures: gallery.Filter(res.Sorted(), category)}

	entries, err := gallery.ReadCarousel(ctx, s.KV)
	if err != nil {
		return galleryViewData{}, err
	}
	inView := make(map[string]bool, len(view.Pictures))
	for _, p := range view.Pictures {
		inView[p.ID] = true
	}
	for _, e := range entries {
		if inView[e.ID] {
			view.Carousel = append(view.Carousel, res.Records[e.ID])
		}
	}
	if len(view.Carousel) == 0 {
		view.Carousel = view.Pictures
	}

	ids := make([]string, 0, len(view.Carousel))
	for _, p := range view.Carousel {
		ids = append(ids, p.ID)
	}
	carousel := s.Carousels.For(category)
	carousel.SetItems(ids)
	view.Index = carousel.Index()
	if view.Index < len(view.Carousel) {
		view.Featured = &view.Carousel[view.Index]
	}
	return view, nil
}

func galleryPage(s *boot.Services) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var query types.GalleryQuery
		if err := ctx.ShouldBindQuery(&query); err != nil {
			ctx.String(http.StatusBadRequest, err.Error())
			return
		}
		view, err := galleryView(ctx, s, query.Category)
		if err != nil {
			log.Printf("[gallery] Could not render gallery: %s\n", err.Error())
			ctx.String(http.StatusInternalServerError, "gallery unavailable")
			return
		}
		category := query.Category
		if category == "all" {
			category = ""
		}
		ctx.HTML(http.StatusOK, "gallery.html", gin.H{
			"Category":   category,
			"Categories": gallery.Categories,
			"Pictures":   view.Pictures,
			"Carousel":   view.Carousel,
			"Index":      view.Index,
			"Featured":   view.Featured,
		})
	}
}

func adminPicturesPage(s *boot.Services) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		res, err := s.Syncer.Reconcile(ctx)
		if err != nil {
			log.Printf("[gallery] Could not render admin grid: %s\n", err.Error())
			ctx.String(http.StatusInternalServerError, "gallery unavailable")
			return
		}
		ctx.HTML(http.StatusOK, "admin_pictures.html", gin.H{
			"Count":    res.Count,
			"Pictures": res.Sorted(),
		})
	}
}

func galleryHandlers(g *gin.RouterGroup, s *boot.Services) {
	g.
		GET("/gallery", func(ctx *gin.Context) {
			var query types.GalleryQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			view, err := galleryView(ctx, s, query.Category)
			if err != nil {
				log.Printf("[gallery] Could not load gallery: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "gallery unavailable"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"pictures": view.Pictures, "count": len(view.Pictures)})
		}).
		GET("/carousel", func(ctx *gin.Context) {
			var query types.GalleryQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			view, err := galleryView(ctx, s, query.Category)
			if err != nil {
				log.Printf("[gallery] Could not load carousel: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "gallery unavailable"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"items":    view.Carousel,
				"index":    view.Index,
				"featured": view.Featured,
			})
		}).
		POST("/carousel/select", func(ctx *gin.Context) {
			var body types.CarouselSelectBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if _, err := galleryView(ctx, s, body.Category); err != nil {
				log.Printf("[gallery] Could not load carousel: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "gallery unavailable"})
				return
			}
			carousel := s.Carousels.For(body.Category)
			idx := carousel.Select(*body.Index)
			ctx.JSON(http.StatusOK, gin.H{"index": idx, "current": carousel.Current()})
		})
}

func carouselAdminHandlers(g *gin.RouterGroup, s *boot.Services) {
	g.PUT("/carousel", func(ctx *gin.Context) {
		var body types.CarouselOrderBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		res, err := s.Syncer.Reconcile(ctx)
		if err != nil {
			log.Printf("[gallery] Could not load pictures: %s\n", err.Error())
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "gallery unavailable"})
			return
		}
		entries := make([]gallery.CarouselEntry, 0, len(body.IDs))
		for i, id := range body.IDs {
			if _, ok := res.Records[id]; !ok {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown picture " + id})
				return
			}
			entries = append(entries, gallery.CarouselEntry{ID: id, Position: i})
		}
		if err := store.WriteJSON(ctx, s.KV, store.KeyCarouselImages, entries); err != nil {
			log.Printf("[gallery] Could not save carousel: %s\n", err.Error())
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if err := s.Bus.Publish(ctx, lib.EventGalleryRefresh, types.JSONB{"carousel": body.IDs}); err != nil {
			log.Printf("[gallery] %s: %s\n", lib.EventGalleryRefresh, err.Error())
		}
		ctx.JSON(http.StatusOK, gin.H{"carousel": entries})
	})
}
