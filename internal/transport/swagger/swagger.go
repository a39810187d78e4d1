package swagger

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SpecPath is where the router serves the raw OpenAPI document.
const SpecPath = "/openapi.yml"

// Handler serves the Swagger UI pointed at SpecPath.
func Handler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL(SpecPath),
	)
}

// Spec is a loaded and validated OpenAPI document together with its source.
type Spec struct {
	Doc *openapi3.T
	Raw []byte
}

// LoadSpec reads the OpenAPI document at path and validates it.
func LoadSpec(ctx context.Context, path string) (*Spec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read openapi spec: %w", err)
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse openapi spec: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi spec: %w", err)
	}
	return &Spec{Doc: doc, Raw: raw}, nil
}

// ServeSpec serves the raw document as YAML.
func (s *Spec) ServeSpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(s.Raw)
}
