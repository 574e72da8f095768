package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/shashiranjanraj/canteen/pkg/reqid"
)

// CORS builds the cross-origin handler for the given origins. "*" allows any.
func CORS(origins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", reqid.Header},
		ExposedHeaders:   []string{reqid.Header},
		AllowCredentials: !allowsAny(origins),
		MaxAge:           300,
	})
	return c.Handler
}

func allowsAny(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return len(origins) == 0
}
