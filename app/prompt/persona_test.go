package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPersona(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "persona.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
name = "Saroj"
assistant = "a blog assistant"
background = ["writer and filmmaker"]
guidelines = ["be helpful"]

[[socials]]
title = "github"
href = "https://github.com/example"
`), 0644))

	p, err := LoadPersona(path)
	require.NoError(t, err)
	assert.Equal(t, "Saroj", p.Name)
	assert.Len(t, p.Socials, 1)
	assert.Contains(t, p.Fallback(), "general knowledge about Saroj")
}

func TestLoadPersonaRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "missing-name.toml")
	require.NoError(t, os.WriteFile(path, []byte(`assistant = "a blog assistant"`), 0644))
	_, err := LoadPersona(path)
	assert.Error(t, err)

	path = filepath.Join(dir, "bad-url.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
name = "Saroj"
assistant = "a blog assistant"

[[socials]]
title = "github"
href = "not a url"
`), 0644))
	_, err = LoadPersona(path)
	assert.Error(t, err)

	_, err = LoadPersona(filepath.Join(dir, "does-not-exist.toml"))
	assert.Error(t, err)
}

func TestPersonaCustomFallback(t *testing.T) {
	p := &Persona{Name: "Saroj", FallbackNote: "Nothing matched, improvise."}
	assert.Equal(t, "Nothing matched, improvise.", p.Fallback())
}
