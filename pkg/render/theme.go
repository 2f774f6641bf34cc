package render

import (
	"maps"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeConfig is the renderer-facing view of a go-theme selection.
type ThemeConfig struct {
	Theme    string
	Variant  string
	Partials map[string]string
	Tokens   map[string]string
	CSSVars  map[string]string
	AssetURL func(key string) string
}

// Partial returns the template override registered for key, or fallback.
func (c *ThemeConfig) Partial(key, fallback string) string {
	if c == nil {
		return fallback
	}
	if candidate := strings.TrimSpace(c.Partials[key]); candidate != "" {
		return candidate
	}
	return fallback
}

// ThemeConfigFromSelection merges the selected variant over its manifest.
// Templates missing from both are filled from fallbacks. A nil selection
// yields nil.
func ThemeConfigFromSelection(selection *theme.Selection, fallbacks map[string]string) *ThemeConfig {
	if selection == nil {
		return nil
	}

	cfg := &ThemeConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: make(map[string]string, len(fallbacks)),
		Tokens:   make(map[string]string),
		CSSVars:  make(map[string]string),
	}
	maps.Copy(cfg.Partials, fallbacks)

	prefix := ""
	files := make(map[string]string)

	if manifest := selection.Manifest; manifest != nil {
		maps.Copy(cfg.Partials, manifest.Templates)
		maps.Copy(cfg.Tokens, manifest.Tokens)
		maps.Copy(files, manifest.Assets.Files)
		prefix = manifest.Assets.Prefix

		if variant, ok := manifest.Variants[selection.Variant]; ok {
			maps.Copy(cfg.Partials, variant.Templates)
			maps.Copy(cfg.Tokens, variant.Tokens)
			maps.Copy(files, variant.Assets.Files)
			if variant.Assets.Prefix != "" {
				prefix = variant.Assets.Prefix
			}
		}
	}

	for name, value := range cfg.Tokens {
		cfg.CSSVars["--"+name] = value
	}

	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" || strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
			return file
		}
		return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
	}
	return cfg
}
