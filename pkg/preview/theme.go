package preview

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// StylesheetAsset is the asset key themes use to point at the preview CSS.
const StylesheetAsset = "preview.stylesheet"

// Theme is the resolved styling handed to the template.
type Theme struct {
	Name       string
	Variant    string
	Tokens     map[string]string
	CSSVars    map[string]string
	Stylesheet string
}

// Style renders the CSS variables as an inline style attribute value with
// keys in sorted order.
func (t Theme) Style() string {
	if len(t.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(t.CSSVars))
	for key := range t.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+t.CSSVars[key])
	}
	return strings.Join(parts, "; ")
}

// ResolveTheme asks the selector for name/variant and flattens the manifest:
// variant tokens and asset files override the base ones.
func ResolveTheme(selector theme.ThemeSelector, name, variant string) (Theme, error) {
	if selector == nil {
		return Theme{}, nil
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return Theme{}, fmt.Errorf("preview: select theme %q/%q: %w", name, variant, err)
	}
	if selection == nil || selection.Manifest == nil {
		return Theme{Name: name, Variant: variant}, nil
	}

	manifest := selection.Manifest
	tokens := copyStringMap(manifest.Tokens)
	files := copyStringMap(manifest.Assets.Files)
	prefix := manifest.Assets.Prefix

	if v, ok := manifest.Variants[selection.Variant]; ok {
		for key, value := range v.Tokens {
			if tokens == nil {
				tokens = make(map[string]string)
			}
			tokens[key] = value
		}
		for key, value := range v.Assets.Files {
			if files == nil {
				files = make(map[string]string)
			}
			files[key] = value
		}
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	}

	out := Theme{
		Name:    selection.Theme,
		Variant: selection.Variant,
		Tokens:  tokens,
	}
	if len(tokens) > 0 {
		out.CSSVars = make(map[string]string, len(tokens))
		for key, value := range tokens {
			out.CSSVars["--"+key] = value
		}
	}
	if file := files[StylesheetAsset]; file != "" {
		out.Stylesheet = joinAsset(prefix, file)
	}
	return out, nil
}

// ManifestSelector serves themes from an in-memory set of manifests.
type ManifestSelector struct {
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector registers manifests by name. The first manifest is the
// default theme unless defaultTheme names another.
func NewManifestSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*ManifestSelector, error) {
	s := &ManifestSelector{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, m := range manifests {
		if m == nil || strings.TrimSpace(m.Name) == "" {
			return nil, fmt.Errorf("preview: theme manifest requires a name")
		}
		if _, dup := s.manifests[m.Name]; dup {
			return nil, fmt.Errorf("preview: duplicate theme %q", m.Name)
		}
		s.manifests[m.Name] = m
		if s.defaultTheme == "" {
			s.defaultTheme = m.Name
		}
	}
	return s, nil
}

// Select resolves name and variant, falling back to the defaults when empty.
// Unknown variants are rejected; an empty variant means the base theme.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultTheme
	}
	variant = strings.TrimSpace(variant)
	if variant == "" && name == s.defaultTheme {
		variant = s.defaultVariant
	}

	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("preview: unknown theme %q", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("preview: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{
		Theme:    name,
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

// DefaultManifest is the built-in theme with a light base and a dark variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "default",
		Version: "1.0.0",
		Tokens: map[string]string{
			"surface": "#ffffff",
			"text":    "#1f2933",
			"accent":  "#2563eb",
			"warning": "#b91c1c",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"surface": "#111827",
					"text":    "#f9fafb",
					"accent":  "#60a5fa",
				},
			},
		},
	}
}

func joinAsset(prefix, file string) string {
	if prefix == "" || strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
		return file
	}
	return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
