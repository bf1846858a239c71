// Package docs serves the OpenAPI document of the HTTP API.
package docs

import (
	_ "embed"
	"net/http"
)

//go:embed swagger.json
var swaggerJSON []byte

// SwaggerJSON returns the raw OpenAPI 2.0 document.
func SwaggerJSON() []byte {
	return swaggerJSON
}

// Handler serves the document at /swagger/doc.json.
func Handler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(swaggerJSON)
}
