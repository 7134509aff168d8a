package main

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"sltourism/src/boot"
	"sltourism/src/lib"
	"sltourism/src/store"
	"sltourism/src/types"

	"github.com/gin-gonic/gin"
)

// catalogs are the free-form lists the site stores verbatim.
var catalogs = []struct {
	path  string
	key   string
	event lib.Event
}{
	{"/hotels", store.KeySiteHotels, lib.EventHotelsUpdate},
	{"/rooms", store.KeySiteRooms, lib.EventAccommodationsUpdate},
}

var errCatalogID = errors.New("every entry needs a non-empty id")

func catalogHandlers(g *gin.RouterGroup, s *boot.Services) {
	for _, c := range catalogs {
		g.GET(c.path, func(ctx *gin.Context) {
			list, err := store.ReadList(ctx, s.KV, c.key)
			if err != nil && !errors.Is(err, store.ErrMalformed) {
				log.Printf("[catalog] Could not read %s: %s\n", c.key, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": list, "count": len(list)})
		})
	}
}

func catalogAdminHandlers(g *gin.RouterGroup, s *boot.Services) {
	for _, c := range catalogs {
		g.PUT(c.path, func(ctx *gin.Context) {
			var body types.RecordsBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			for _, entry := range body {
				id, _ := entry["id"].(string)
				if strings.TrimSpace(id) == "" {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": errCatalogID.Error()})
					return
				}
			}
			if body == nil {
				body = types.RecordsBody{}
			}
			if err := store.WriteJSON(ctx, s.KV, c.key, body); err != nil {
				log.Printf("[catalog] Could not save %s: %s\n", c.key, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if err := s.Bus.Publish(ctx, c.event, types.JSONB{"key": c.key, "count": len(body)}); err != nil {
				log.Printf("[catalog] %s: %s\n", c.event, err.Error())
			}
			ctx.JSON(http.StatusOK, gin.H{"data": body, "count": len(body)})
		})
	}
}
