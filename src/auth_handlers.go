package main

import (
	"net/http"

	"sltourism/src/controllers"
	"sltourism/src/middlewares"

	"github.com/gin-gonic/gin"
)

func authHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.POST("/login", func(ctx *gin.Context) {
		token, status, err := controllers.AuthLogin(ctx, middlewares.GenerateJWT)
		if err != nil {
			ctx.JSON(status, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"token": *token})
	})
	return g
}
