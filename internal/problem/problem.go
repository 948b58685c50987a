// Package problem loads optimization problems from YAML or JSON files.
//
// Problem files use the same field names as the HTTP API, so a document
// saved from the web form can be solved offline unchanged.
package problem

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/iwvelando/portfolio-optimizer/internal/api"
	"gopkg.in/yaml.v3"
)

// Load reads and validates the problem file at path.
func Load(path string) (api.Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return api.Request{}, fmt.Errorf("failed to open problem file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	req, err := Decode(f)
	if err != nil {
		return api.Request{}, fmt.Errorf("problem file %s: %w", path, err)
	}
	return req, nil
}

// Decode parses a YAML or JSON problem document. JSON is valid YAML, so a
// single parser serves both; the document is then re-encoded as JSON and
// checked by the API decoder so files and requests obey the same rules.
func Decode(r io.Reader) (api.Request, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return api.Request{}, fmt.Errorf("failed to read problem: %w", err)
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return api.Request{}, fmt.Errorf("error reading problem data, %w", err)
	}

	normalized, err := json.Marshal(normalize(doc))
	if err != nil {
		return api.Request{}, fmt.Errorf("failed to normalize problem: %w", err)
	}

	return api.DecodeRequest(normalized)
}

// normalize converts YAML maps into JSON-encodable ones.
func normalize(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, item := range v {
			out[key] = normalize(item)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalize(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = normalize(item)
		}
		return out
	default:
		return v
	}
}
