package middlewares

import (
	"log"
	"net/http"
	"strings"

	"sltourism/src/controllers"
	"sltourism/src/store"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware admits requests carrying a valid bearer token for an admin
// that still exists in the users list.
func AuthMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	reqToken, ok := strings.CutPrefix(bearerToken, "Bearer ")
	if !ok || strings.TrimSpace(reqToken) == "" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}
	claims, err := ParseJWT(strings.TrimSpace(reqToken))
	if err != nil {
		log.Printf("token error: %s\n", err.Error())
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	user, err := controllers.FindUser(ctx, store.GetKeyValue(), claims.Subject)
	if err != nil || user == nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return
	}
	ctx.Set("email", user.Email)
	ctx.Set("name", user.Name)
	ctx.Set("role", user.Role)
	ctx.Next()
}
