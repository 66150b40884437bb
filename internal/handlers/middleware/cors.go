package middleware

import (
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS configura CORS a partir da lista de origens separadas por vírgula.
// "*" libera qualquer origem, sem credenciais.
func CORS(allowedOrigins string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Language", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition", "Content-Language", RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	origins := ParseOrigins(allowedOrigins)
	switch {
	case slices.Contains(origins, "*"):
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	case len(origins) == 0:
		cfg.AllowOrigins = []string{"http://localhost:5173"}
	default:
		cfg.AllowOrigins = origins
	}

	return cors.New(cfg)
}

// ParseOrigins separa a lista de origens, descartando vazios
func ParseOrigins(allowedOrigins string) []string {
	var origins []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
