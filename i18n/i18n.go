// Package i18n resolves a locale to its static dictionary and text direction.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

type Locale string

const (
	Arabic  Locale = "ar"
	English Locale = "en"

	// Default is used whenever a locale cannot be resolved
	Default = Arabic
)

var (
	supportedTags = []language.Tag{language.Arabic, language.English}
	supported     = []Locale{Arabic, English}
	matcher       = language.NewMatcher(supportedTags)

	bundles = map[Locale]*Bundle{}
)

func init() {
	for _, l := range supported {
		b, err := load(l)
		if err != nil {
			panic(err)
		}
		bundles[l] = b
	}
}

// Supported lists every locale with a dictionary
func Supported() []Locale {
	out := make([]Locale, len(supported))
	copy(out, supported)
	return out
}

// Parse reports whether s names a supported locale
func Parse(s string) (Locale, bool) {
	l := Locale(strings.ToLower(strings.TrimSpace(s)))
	_, ok := bundles[l]
	return l, ok
}

// Resolve returns the locale named by s, or Default
func Resolve(s string) Locale {
	if l, ok := Parse(s); ok {
		return l
	}
	return Default
}

// Match picks the best supported locale for an Accept-Language header
func Match(acceptLanguage string) Locale {
	acceptLanguage = strings.TrimSpace(acceptLanguage)
	if acceptLanguage == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return supported[idx]
}

func (l Locale) String() string { return string(l) }

// IsRTL reports whether text in this locale reads right to left
func (l Locale) IsRTL() bool { return l == Arabic }

// Direction is the value of the html dir attribute
func (l Locale) Direction() string {
	if l.IsRTL() {
		return "rtl"
	}
	return "ltr"
}

// Other is the locale offered by the language switch
func (l Locale) Other() Locale {
	if l == Arabic {
		return English
	}
	return Arabic
}

// Bundle is a loaded dictionary for one locale
type Bundle struct {
	Locale Locale
	Dict   Dictionary
	flat   map[string]string
}

// Get returns the bundle for l, falling back to Default
func Get(l Locale) *Bundle {
	if b, ok := bundles[l]; ok {
		return b
	}
	return bundles[Default]
}

// T looks up a dotted key. Missing keys fall back to the default locale and then
// to the key itself. Pairs in args replace {name} placeholders.
func (b *Bundle) T(key string, args ...any) string {
	s, ok := b.flat[key]
	if !ok && b.Locale != Default {
		s, ok = bundles[Default].flat[key]
	}
	if !ok {
		return key
	}
	return replace(s, args...)
}

// Has reports whether the bundle itself defines key
func (b *Bundle) Has(key string) bool {
	_, ok := b.flat[key]
	return ok
}

// T is shorthand for Get(l).T(key, args...)
func T(l Locale, key string, args ...any) string {
	return Get(l).T(key, args...)
}

func replace(s string, args ...any) string {
	if len(args) < 2 {
		return s
	}
	pairs := make([]string, 0, len(args))
	for i := 0; i+1 < len(args); i += 2 {
		pairs = append(pairs, "{"+fmt.Sprint(args[i])+"}", fmt.Sprint(args[i+1]))
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

func load(l Locale) (*Bundle, error) {
	raw, err := localeFS.ReadFile("locales/" + string(l) + ".json")
	if err != nil {
		return nil, fmt.Errorf("read %s dictionary: %w", l, err)
	}

	var dict Dictionary
	if err := json.Unmarshal(raw, &dict); err != nil {
		return nil, fmt.Errorf("decode %s dictionary: %w", l, err)
	}

	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("decode %s dictionary: %w", l, err)
	}

	flat := make(map[string]string)
	flatten("", tree, flat)

	return &Bundle{Locale: l, Dict: dict, flat: flat}, nil
}

// flatten keeps string leaves only; arrays are reached through Dictionary
func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]any:
			flatten(key, val, out)
		}
	}
}
