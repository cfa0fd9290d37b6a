package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/rmgweb/internal/application/structure"
	"github.com/turtacn/rmgweb/internal/interfaces/http/routes"
	"github.com/turtacn/rmgweb/internal/interfaces/http/views"
)

const water = "1 O u0 p2 c0 {2,S} {3,S}\n2 H u0 p0 c0 {1,S}\n3 H u0 p0 c0 {1,S}\n"

func newTestViews(t *testing.T) *views.Views {
	t.Helper()
	table := routes.NewDefaultTable()
	v, err := views.New(views.Site{Title: "RMG", Description: "Reaction Mechanism Generator"}, structure.NewMarkupBuilder(table), table)
	require.NoError(t, err)
	return v
}

// reverse builds a site path the way markup links do.
func reverse(t *testing.T, name, adjlist string) string {
	t.Helper()
	p, err := routes.NewDefaultTable().Reverse(name, map[string]string{routes.ParamAdjlist: adjlist})
	require.NoError(t, err)
	return p
}

func serve(h http.Handler, method, target string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func newStructureRouter(h *StructureHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/database/molecule/*", h.MoleculeInfo)
	r.Get("/database/group/*", h.GroupInfo)
	r.Get("/molecule/*", h.DrawMolecule)
	r.Get("/group/*", h.DrawGroup)
	return r
}

//Personal.AI order the ending
