// Package views renders the site's HTML pages from embedded templates.
package views

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"
	"net/http"

	"github.com/turtacn/rmgweb/internal/application/notation"
	"github.com/turtacn/rmgweb/internal/application/structure"
	domain "github.com/turtacn/rmgweb/internal/domain/structure"
	"github.com/turtacn/rmgweb/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names.
const (
	PageHome     = "home.html"
	PageDatabase = "database.html"
	PageMolecule = "molecule.html"
	PageGroup    = "group.html"
	PageError    = "error.html"
)

// Site is the data every page sees as .Site.
type Site struct {
	Title       string
	Description string
}

// Page is the root value passed to a template.
type Page struct {
	Site  Site
	Title string
	Data  interface{}
}

// Views executes page templates.  The structure helpers are bound to the
// request context on every render.
type Views struct {
	base     *template.Template
	site     Site
	markup   structure.Renderer
	resolver structure.URLResolver
}

// New parses the embedded templates.  markup and resolver back the
// structureInfo, structureMarkup and url template functions.
func New(site Site, markup structure.Renderer, resolver structure.URLResolver) (*Views, error) {
	v := &Views{site: site, markup: markup, resolver: resolver}

	base, err := template.New("").Funcs(v.funcs(context.Background())).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTemplate, "failed to parse templates")
	}
	v.base = base
	return v, nil
}

// Render executes page into w.  Output is buffered so a template failure
// leaves w untouched.
func (v *Views) Render(ctx context.Context, w io.Writer, page, title string, data interface{}) error {
	t, err := v.base.Clone()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeTemplate, "failed to clone templates")
	}
	t = t.Funcs(v.funcs(ctx))

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, page, Page{Site: v.site, Title: title, Data: data}); err != nil {
		return errors.Wrap(err, errors.ErrCodeTemplate, "failed to render page").WithDetail(page)
	}
	_, err = buf.WriteTo(w)
	return err
}

// RenderHTTP renders page with status and an HTML content type.
func (v *Views) RenderHTTP(w http.ResponseWriter, r *http.Request, status int, page, title string, data interface{}) error {
	var buf bytes.Buffer
	if err := v.Render(r.Context(), &buf, page, title, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func (v *Views) funcs(ctx context.Context) template.FuncMap {
	return template.FuncMap{
		"structureInfo": func(obj domain.Object) (template.HTML, error) {
			if v.markup == nil {
				return "", nil
			}
			s, err := v.markup.StructureInfo(ctx, obj)
			return template.HTML(s), err
		},
		"structureMarkup": func(obj domain.Object) (template.HTML, error) {
			if v.markup == nil {
				return "", nil
			}
			s, err := v.markup.StructureMarkup(ctx, obj)
			return template.HTML(s), err
		},
		"latexSci": notation.LaTeXScientificNotation,
		"url": func(name string, params ...string) (string, error) {
			if v.resolver == nil {
				return "", errors.New(errors.ErrCodeRouteNotFound, "no URL resolver configured").WithDetail(name)
			}
			m := make(map[string]string, len(params)/2)
			for i := 0; i+1 < len(params); i += 2 {
				m[params[i]] = params[i+1]
			}
			return v.resolver.Reverse(name, m)
		},
	}
}

//Personal.AI order the ending
