// Package messages renders human-readable step and rejection texts from
// message keys and parameters. Catalogs are embedded YAML files, one per locale.
package messages

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/Degagemain/degage-sub000/pkg/requestcontext"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Params are the named values substituted into {name} placeholders.
type Params map[string]any

// Formatter renders a message. Unknown keys render as the key itself.
type Formatter interface {
	Message(key string, params Params) string
}

// Source picks the Formatter for a request.
type Source interface {
	For(ctx context.Context) Formatter
}

// Static adapts a single Formatter into a Source.
func Static(f Formatter) Source {
	return staticSource{f: f}
}

type staticSource struct{ f Formatter }

func (s staticSource) For(context.Context) Formatter { return s.f }

// Catalog is the message table for one locale.
type Catalog struct {
	locale  language.Tag
	entries map[string]string
}

// NewCatalog builds a catalog from an in-memory table.
func NewCatalog(locale language.Tag, entries map[string]string) *Catalog {
	return &Catalog{locale: locale, entries: entries}
}

func (c *Catalog) Locale() language.Tag {
	return c.locale
}

func (c *Catalog) Message(key string, params Params) string {
	tmpl, ok := c.entries[key]
	if !ok {
		return key
	}
	if len(params) == 0 {
		return tmpl
	}

	pairs := make([]string, 0, len(params)*2)
	for name, v := range params {
		pairs = append(pairs, "{"+name+"}", formatValue(v))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// Has reports whether key is defined.
func (c *Catalog) Has(key string) bool {
	_, ok := c.entries[key]
	return ok
}

// Keys returns the defined keys in sorted order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

// Bundle holds every embedded catalog and negotiates between them.
type Bundle struct {
	catalogs map[language.Tag]*Catalog
	tags     []language.Tag
	matcher  language.Matcher
	fallback *Catalog
}

// Load parses the embedded catalogs. defaultLocale must name one of them.
func Load(defaultLocale string) (*Bundle, error) {
	return LoadFS(localeFS, "locales", defaultLocale)
}

// LoadFS parses every *.yaml file under dir; the file name is the locale.
func LoadFS(fsys fs.FS, dir, defaultLocale string) (*Bundle, error) {
	def, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("parse default locale %q: %w", defaultLocale, err)
	}

	files, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}

	b := &Bundle{catalogs: make(map[language.Tag]*Catalog)}
	// the default goes first so the matcher falls back to it
	b.tags = append(b.tags, def)
	for _, f := range files {
		name := strings.TrimSuffix(path.Base(f), ".yaml")
		tag, err := language.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", f, err)
		}
		raw, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", f, err)
		}
		entries := make(map[string]string)
		if err := yaml.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("decode catalog %s: %w", f, err)
		}
		b.catalogs[tag] = NewCatalog(tag, entries)
		if tag != def {
			b.tags = append(b.tags, tag)
		}
	}

	fallback, ok := b.catalogs[def]
	if !ok {
		return nil, fmt.Errorf("no catalog for default locale %q", defaultLocale)
	}
	b.fallback = fallback
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

// Default returns the catalog of the default locale.
func (b *Bundle) Default() *Catalog {
	return b.fallback
}

// Catalog returns the catalog whose locale best matches the given tag string.
func (b *Bundle) Catalog(locale string) *Catalog {
	if locale == "" {
		return b.fallback
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return b.fallback
	}
	return b.match(tag)
}

// Negotiate picks a catalog for an Accept-Language header value.
func (b *Bundle) Negotiate(acceptLanguage string) *Catalog {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return b.fallback
	}
	return b.match(tags...)
}

func (b *Bundle) match(tags ...language.Tag) *Catalog {
	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No {
		return b.fallback
	}
	if c, ok := b.catalogs[b.tags[idx]]; ok {
		return c
	}
	return b.fallback
}

// For returns the catalog for the locale stored on ctx.
func (b *Bundle) For(ctx context.Context) Formatter {
	return b.Catalog(requestcontext.Locale(ctx))
}
