package users

import (
	"net/http"

	"github.com/google/uuid"
	pz "github.com/weberc2/httpeasy"
)

// RequestID wraps a handler so every response carries an `X-Request-Id`
// header (generated unless the caller supplied one) and the id appears
// in the request log line.
func RequestID(h pz.Handler) pz.Handler {
	return func(r pz.Request) pz.Response {
		id := r.Headers.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		return h(r).
			WithHeaders(http.Header{"X-Request-Id": []string{id}}).
			WithLogging(struct {
				RequestID string `json:"requestId"`
			}{id})
	}
}
