// Package views embeds the HTML templates and static assets of the portal.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gofiber/template/html/v2"
	"github.com/qaunion/portal/i18n"
)

//go:embed templates static
var files embed.FS

// Engine returns the template engine with the portal helpers registered.
// Templates are named by their path under templates/ without .html.
func Engine() *html.Engine {
	sub, err := fs.Sub(files, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFuncMap(Funcs())
	return engine
}

// Static serves the embedded static/ directory
func Static() http.FileSystem {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Funcs are the helpers available to every template
func Funcs() template.FuncMap {
	return template.FuncMap{
		"t": func(l i18n.Locale, key string, args ...any) string {
			return i18n.T(l, key, args...)
		},
		"digits": func(l i18n.Locale, v any) string {
			return i18n.Digits(l, fmt.Sprint(v))
		},
		"date": func(l i18n.Locale, t time.Time) string {
			return i18n.FormatDate(l, t)
		},
		"clock": func(l i18n.Locale, t time.Time) string {
			return i18n.Digits(l, t.Format("15:04"))
		},
		"percent": func(v float64) string {
			return fmt.Sprintf("%.0f", v)
		},
		"add": func(a, b int) int { return a + b },
		"dict": func(pairs ...any) (map[string]any, error) {
			if len(pairs)%2 != 0 {
				return nil, fmt.Errorf("dict needs key/value pairs")
			}
			m := make(map[string]any, len(pairs)/2)
			for i := 0; i < len(pairs); i += 2 {
				key, ok := pairs[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
				}
				m[key] = pairs[i+1]
			}
			return m, nil
		},
	}
}
