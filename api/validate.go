package api

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/qri-io/jsonschema"

	"github.com/Umesh-Verma07/AynaForm/internal/services"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const maxBodyBytes = 1 << 20

const (
	schemaCredentials = "credentials"
	schemaForm        = "form"
	schemaSubmission  = "submission"
)

// Validator checks request bodies against the embedded JSON schemas before
// they are decoded.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

func NewValidator() (*Validator, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}
	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(entries))}
	for _, e := range entries {
		b, err := schemaFS.ReadFile(path.Join("schemas", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", e.Name(), err)
		}
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(b, rs); err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", e.Name(), err)
		}
		v.schemas[strings.TrimSuffix(e.Name(), ".json")] = rs
	}
	return v, nil
}

// Decode reads the request body, validates it against the named schema and
// unmarshals it into dst. Failures are returned as validation errors.
func (v *Validator) Decode(w http.ResponseWriter, r *http.Request, schema string, dst any) error {
	rs, ok := v.schemas[schema]
	if !ok {
		return fmt.Errorf("unknown schema %q", schema)
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return services.NewValidationError("Invalid request body")
	}
	if !json.Valid(body) {
		return services.NewValidationError("Invalid request body")
	}

	verrs, err := rs.ValidateBytes(r.Context(), body)
	if err != nil {
		return services.NewValidationError("Invalid request body")
	}
	if len(verrs) > 0 {
		fields := make([]services.FieldError, 0, len(verrs))
		for _, ke := range verrs {
			fields = append(fields, services.FieldError{
				Message: ke.Message,
				Path:    splitPointer(ke.PropertyPath),
				Code:    "schema",
			})
		}
		return services.NewValidationError("Validation failed", fields...)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return services.NewValidationError("Invalid request body")
	}
	return nil
}

// splitPointer turns "/questions/0/text" into its segments.
func splitPointer(p string) []string {
	segments := []string{}
	for _, s := range strings.Split(strings.TrimLeft(p, "#/"), "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}
