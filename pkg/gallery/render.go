package gallery

import (
	"bytes"
	_ "embed"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"slices"
	"strings"
)

// attrName matches the attribute names passed through from item
// attributes. Event handlers are never emitted.
var attrName = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

func safeAttr(name string) bool {
	return attrName.MatchString(name) && !strings.HasPrefix(name, "on")
}

//go:embed assets/gallery.tmpl
var galleryTmpl string

// HTML renders a view model with the gallery template.
func HTML(vm *ViewModel) (template.HTML, error) {
	if vm == nil {
		return "", nil
	}

	tmpl, err := template.New("gallery").Funcs(tmplFunctions()).Parse(galleryTmpl)
	if err != nil {
		return "", fmt.Errorf("parse: %w", err)
	}

	var tpl bytes.Buffer
	if err = tmpl.Execute(&tpl, vm); err != nil {
		return "", fmt.Errorf("execute: %w", err)
	}

	return template.HTML(tpl.String()), nil
}

// tmplFunctions are functions available to our templates.
func tmplFunctions() template.FuncMap {
	return template.FuncMap{
		"attrs": func(m map[string]string) template.HTMLAttr {
			keys := make([]string, 0, len(m))
			for k := range m {
				if safeAttr(k) {
					keys = append(keys, k)
				}
			}
			slices.Sort(keys)

			parts := make([]string, 0, len(keys))
			for _, k := range keys {
				parts = append(parts, k+`="`+html.EscapeString(m[k])+`"`)
			}
			return template.HTMLAttr(strings.Join(parts, " "))
		},
		"dims": func(w, h *int) template.HTMLAttr {
			var b strings.Builder
			if w != nil {
				fmt.Fprintf(&b, ` width="%d"`, *w)
			}
			if h != nil {
				fmt.Fprintf(&b, ` height="%d"`, *h)
			}
			return template.HTMLAttr(b.String())
		},
	}
}
