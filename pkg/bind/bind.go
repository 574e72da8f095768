// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shashiranjanraj/canteen/config"
	"github.com/shashiranjanraj/canteen/pkg/validate"
)

const defaultMaxBody = 4 << 20

// MaxBodyBytes is MAX_BODY_BYTES, 4 MB by default.
func MaxBodyBytes() int64 {
	n := int64(config.Int("MAX_BODY_BYTES", defaultMaxBody))
	if n <= 0 {
		return defaultMaxBody
	}
	return n
}

// JSON decodes r.Body into dest and validates it. Malformed or oversized
// bodies return err; validation failures return errs. An empty body is
// treated as {} so that required rules report what is missing.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxBodyBytes())

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
