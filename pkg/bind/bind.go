// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shashiranjanraj/stockroom/config"
	"github.com/shashiranjanraj/stockroom/pkg/validate"
)

// maxBodyBytes is the request body limit (MAX_BODY_BYTES, default 64 KB;
// dashboard payloads are a handful of fields).
func maxBodyBytes() int64 {
	n := int64(config.Int("MAX_BODY_BYTES", 64<<10))
	if n <= 0 {
		return 64 << 10
	}
	return n
}

// JSON decodes r.Body as JSON into dest and runs validation.
// An empty body decodes as {} so inputs made only of optional fields work
// without one. Returns (errs, nil) on validation failures and (nil, err) when
// the body is malformed or too large.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	if err = json.NewDecoder(r.Body).Decode(dest); err != nil && !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if errs = validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}
