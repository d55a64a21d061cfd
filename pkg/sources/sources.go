// Package sources loads the declarative source definitions that drive a
// collection run.
package sources

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoSources indicates the configuration declared no sources at all.
	ErrNoSources = errors.New("no sources found in configuration")
	// ErrUnknownType indicates a source declared a type outside {html, rss, api}.
	ErrUnknownType = errors.New("unknown source type")
)

// Type is the closed set of source kinds. Resolved once at load time so the
// collector dispatches on a variant, not a raw string.
type Type int

const (
	Html Type = iota
	Rss
	Api
)

func (t Type) String() string {
	switch t {
	case Rss:
		return "rss"
	case Api:
		return "api"
	default:
		return "html"
	}
}

// Definition describes one configured origin.
type Definition struct {
	Name    string
	URL     string
	Type    Type
	Enabled bool
	Params  map[string]string
	Headers map[string]string
}

type rawDefinition struct {
	Name    string            `yaml:"name"`
	URL     string            `yaml:"url"`
	Type    string            `yaml:"type"`
	Enabled bool              `yaml:"enabled"`
	Params  map[string]string `yaml:"params"`
	Headers map[string]string `yaml:"headers"`
}

type rawConfig struct {
	Sources []rawDefinition `yaml:"sources"`
}

// LoadFile reads source definitions from a YAML document and returns only
// the enabled ones, in declaration order.
func LoadFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes source definitions from YAML bytes, keeping only enabled
// entries.
func Parse(data []byte) ([]Definition, error) {
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse sources config: %w", err)
	}
	if len(raw.Sources) == 0 {
		return nil, ErrNoSources
	}

	defs := make([]Definition, 0, len(raw.Sources))
	for _, r := range raw.Sources {
		if !r.Enabled {
			continue
		}
		t, err := parseType(r.Type)
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", r.Name, err)
		}
		defs = append(defs, Definition{
			Name:    r.Name,
			URL:     r.URL,
			Type:    t,
			Enabled: true,
			Params:  r.Params,
			Headers: r.Headers,
		})
	}
	return defs, nil
}

// parseType resolves the declared type string. Unspecified defaults to html.
func parseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "html":
		return Html, nil
	case "rss":
		return Rss, nil
	case "api":
		return Api, nil
	default:
		return Html, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}
