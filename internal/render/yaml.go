package render

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ademuri/kexp-tastemakers/internal/analysis"
)

// YAML writes the report aggregates for other tools to consume.
func YAML(w io.Writer, r *analysis.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return enc.Close()
}
