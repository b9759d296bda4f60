// Package schema validates request bodies against embedded JSON Schemas.
package schema

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/dira-homes/dira/internal/domain"
)

// Schema names.
const (
	Listing  = "listing"
	Signup   = "signup"
	Login    = "login"
	Location = "location"
)

//go:embed schemas/*.json
var schemasFS embed.FS

// Validator holds the compiled schemas.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// New compiles every embedded schema.
func New() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true

	entries, err := fs.ReadDir(schemasFS, "schemas")
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		p := path.Join("schemas", e.Name())
		f, err := schemasFS.Open(p)
		if err != nil {
			return nil, fmt.Errorf("open schema %s: %w", p, err)
		}
		err = compiler.AddResource(p, f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("add schema %s: %w", p, err)
		}
		names = append(names, p)
	}

	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(names))}
	for _, p := range names {
		s, err := compiler.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", p, err)
		}
		v.schemas[strings.TrimSuffix(path.Base(p), ".json")] = s
	}
	return v, nil
}

// Validate checks body against the named schema. Violations are returned as
// *domain.ValidationError naming the deepest failing property.
func (v *Validator) Validate(name string, body []byte) error {
	s, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("schema %q not registered", name)
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return domain.NewValidationError("body", "request body is not valid JSON")
	}

	err := s.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("validate %s: %w", name, err)
	}
	leaf := deepest(ve)
	return domain.NewValidationError(fieldName(leaf.InstanceLocation), "%s: %s", displayLocation(leaf.InstanceLocation), leaf.Message)
}

func deepest(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}

func fieldName(loc string) string {
	loc = strings.TrimSuffix(loc, "/")
	if i := strings.LastIndexByte(loc, '/'); i >= 0 {
		loc = loc[i+1:]
	}
	if loc == "" {
		return "body"
	}
	return loc
}

func displayLocation(loc string) string {
	loc = strings.Trim(loc, "/")
	if loc == "" {
		return "body"
	}
	return strings.ReplaceAll(loc, "/", ".")
}
