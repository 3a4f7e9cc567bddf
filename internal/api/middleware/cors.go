package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the browser app to call the API from another origin.
var CORS func(http.Handler) http.Handler = cors.Handler(cors.Options{
	AllowedOrigins: []string{"*"},
	AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
	AllowedHeaders: []string{"Authorization", "Content-Type"},
	MaxAge:         300,
})
