package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the admin frontend origins. A "*" entry opens the API to any
// origin, without credentials.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour

	for _, origin := range allowedOrigins {
		if origin == "*" {
			corsConfig.AllowAllOrigins = true
			return cors.New(corsConfig)
		}
	}
	corsConfig.AllowOrigins = allowedOrigins
	corsConfig.AllowCredentials = true
	return cors.New(corsConfig)
}
