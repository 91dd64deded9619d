package theme

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
)

//go:embed page.tmpl
var pageTmpl string

// Page renders a full HTML document around rendered fragments.
func (t *Theme) Page(title string, body []template.HTML, a *Assets) ([]byte, error) {
	tmpl, err := template.New("page").Parse(pageTmpl)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if a == nil {
		a = &Assets{}
	}

	data := struct {
		Title  string
		Theme  string
		Body   []template.HTML
		Assets *Assets
	}{
		Title:  title,
		Theme:  t.Name,
		Body:   body,
		Assets: a,
	}

	var tpl bytes.Buffer
	if err = tmpl.Execute(&tpl, data); err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}
	return tpl.Bytes(), nil
}
