package shared

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// MaxRequestBodyBytes caps the size of JSON request bodies.
const MaxRequestBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeJSON decodes the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	body := http.MaxBytesReader(nil, r.Body, MaxRequestBodyBytes)
	return json.NewDecoder(body).Decode(v)
}

// ValidateRequest runs v's Validate method if it has one, and its validator
// struct tags otherwise.
func ValidateRequest(v any) error {
	if custom, ok := v.(interface{ Validate() error }); ok {
		return custom.Validate()
	}
	return validate.Struct(v)
}
