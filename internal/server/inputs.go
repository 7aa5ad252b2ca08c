package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/iwvelando/investment-tracker/pkg/mathutil"
)

// fields is request input flattened to strings, from a form or a JSON object.
type fields map[string]string

// readFields collects request input from a JSON object when the body is JSON
// and from the parsed form otherwise. JSON numbers keep their literal text.
func readFields(r *http.Request) (fields, error) {
	if strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		var payload map[string]interface{}
		if err := dec.Decode(&payload); err != nil {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
		out := make(fields, len(payload))
		for key, value := range payload {
			switch v := value.(type) {
			case nil:
			case json.Number:
				out[key] = v.String()
			case string:
				out[key] = v
			case bool:
				out[key] = strconv.FormatBool(v)
			default:
				return nil, fmt.Errorf("field %s must be a number or string", key)
			}
		}
		return out, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form body: %w", err)
	}
	out := make(fields, len(r.PostForm))
	for key := range r.PostForm {
		out[key] = r.PostForm.Get(key)
	}
	return out, nil
}

func (f fields) has(key string) bool {
	_, ok := f[key]
	return ok && strings.TrimSpace(f[key]) != ""
}

func (f fields) text(key string) string {
	return strings.TrimSpace(f[key])
}

// number parses a finite float field, returning fallback when it is absent.
func (f fields) number(key string, fallback float64) (float64, error) {
	if !f.has(key) {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(f.text(key), 64)
	if err != nil || !mathutil.IsFinite(v) {
		return 0, fmt.Errorf("%s must be a finite number, got %q", key, f[key])
	}
	return v, nil
}

// requiredNumber is number for a field that must be present.
func (f fields) requiredNumber(key string) (float64, error) {
	if !f.has(key) {
		return 0, fmt.Errorf("%s is required", key)
	}
	return f.number(key, 0)
}
