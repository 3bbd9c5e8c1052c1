package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// maxRequestBody bounds how much of a request body a handler will decode.
const maxRequestBody = 1 << 20

// DecodeJSONRequest decodes the request body into dst, rejecting unknown
// fields and bodies over one megabyte.
func DecodeJSONRequest(r *http.Request, dst any) error {
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}
