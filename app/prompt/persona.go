// Package prompt assembles the leading system turn of every conversation:
// persona, blog catalog, retrieved content, social links and the
// behavioral guidelines for the completion model.
package prompt

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Persona is the externally configurable identity of the assistant. It
// lives in a TOML document so prompt content can change without a deploy.
type Persona struct {
	Name         string   `toml:"name" validate:"required"`
	Assistant    string   `toml:"assistant" validate:"required"`
	Background   []string `toml:"background"`
	Socials      []Social `toml:"socials" validate:"dive"`
	Guidelines   []string `toml:"guidelines"`
	Style        []string `toml:"style"`
	FallbackNote string   `toml:"fallback_note"`
}

type Social struct {
	Title string `toml:"title" validate:"required"`
	Href  string `toml:"href" validate:"required,url"`
}

// LoadPersona reads and validates the persona document.
func LoadPersona(path string) (*Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read persona file: %w", err)
	}

	var p Persona
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse persona file: %w", err)
	}
	if err := validator.New().Struct(&p); err != nil {
		return nil, fmt.Errorf("invalid persona file: %w", err)
	}
	return &p, nil
}

// Fallback returns the sentence rendered instead of retrieved content
// when the search comes back empty.
func (p *Persona) Fallback() string {
	if p.FallbackNote != "" {
		return p.FallbackNote
	}
	return fmt.Sprintf("No specific blog posts found for this query. Use your general knowledge about %s.", p.Name)
}
