package handlers

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/turtacn/rmgweb/internal/application/structure"
	domain "github.com/turtacn/rmgweb/internal/domain/structure"
	"github.com/turtacn/rmgweb/internal/infrastructure/storage/minio"
	"github.com/turtacn/rmgweb/internal/interfaces/http/routes"
	"github.com/turtacn/rmgweb/internal/testutil"
	"github.com/turtacn/rmgweb/pkg/errors"
)

const carbonyl = "1 *1 C u0 {2,D}\n2 *2 [O,S] u[0,1] c[0,-1] {1,D}\n"

type mockDepictions struct {
	mock.Mock
}

func (m *mockDepictions) Get(ctx context.Context, obj domain.Object) (*minio.Object, error) {
	args := m.Called(ctx, obj)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*minio.Object), args.Error(1)
}

func isWater(obj domain.Object) bool {
	m, ok := obj.(*domain.Molecule)
	return ok && m.Formula() == "H2O"
}

func TestStructureHandler_MoleculeInfo(t *testing.T) {
	h := NewStructureHandler(newTestViews(t), nil, nil, nil)

	rec := serve(newStructureRouter(h), http.MethodGet, reverse(t, routes.MoleculeEntry, water))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "<title>H2O - RMG</title>")
	assert.Contains(t, body, "<td>3</td>")
	assert.Contains(t, body, `1.80153 \times 10^{-2}`)
	assert.Contains(t, body, `src="/molecule/`+structure.Quote(water)+`"`)
	assert.Contains(t, body, "<pre>1 O u0 p2 c0 {2,S} {3,S}\n")
}

func TestStructureHandler_MoleculeInfo_DrawURLRoundTrip(t *testing.T) {
	h := NewStructureHandler(newTestViews(t), nil, nil, nil)

	// The drawing URL carries an already-quoted adjacency list.
	rec := serve(newStructureRouter(h), http.MethodGet, "/database/molecule/"+structure.Quote(water))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>H2O</h1>")
}

func TestStructureHandler_BadInput(t *testing.T) {
	log := testutil.NewMockLogger()
	h := NewStructureHandler(newTestViews(t), nil, log, nil)
	router := newStructureRouter(h)

	tests := []struct {
		name   string
		target string
		code   string
	}{
		{"invalid molecule", reverse(t, routes.MoleculeEntry, "1 C u0 {2,S}\n"), "STR_001"},
		{"empty molecule", "/database/molecule/", "STR_001"},
		{"invalid group", reverse(t, routes.GroupEntry, "1 [Cd,Cs u0\n"), "STR_001"},
		{"invalid draw", reverse(t, routes.DrawMolecule, "x"), "STR_001"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, http.MethodGet, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "<h1>400 Bad Request</h1>")
			assert.Contains(t, rec.Body.String(), tt.code)
		})
	}
	assert.True(t, log.HasMessage("debug", "request rejected"))
}

func TestStructureHandler_GroupInfo(t *testing.T) {
	h := NewStructureHandler(newTestViews(t), nil, nil, nil)

	rec := serve(newStructureRouter(h), http.MethodGet, reverse(t, routes.GroupEntry, carbonyl))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `src="/group/`)
	assert.Contains(t, rec.Body.String(), "[O,S]")
}

func TestStructureHandler_DrawMolecule_Served(t *testing.T) {
	svc := &mockDepictions{}
	svc.On("Get", mock.Anything, mock.MatchedBy(isWater)).Return(&minio.Object{
		Body:        io.NopCloser(strings.NewReader("PNGDATA")),
		ContentType: "image/png",
		Size:        7,
		ETag:        "abc",
	}, nil)
	h := NewStructureHandler(newTestViews(t), svc, nil, nil)

	rec := serve(newStructureRouter(h), http.MethodGet, "/molecule/"+structure.Quote(water))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "7", rec.Header().Get("Content-Length"))
	assert.Equal(t, `"abc"`, rec.Header().Get("ETag"))
	assert.Equal(t, "PNGDATA", rec.Body.String())
	svc.AssertExpectations(t)
}

func TestStructureHandler_DrawMolecule_NotModified(t *testing.T) {
	svc := &mockDepictions{}
	svc.On("Get", mock.Anything, mock.Anything).Return(&minio.Object{
		Body: io.NopCloser(strings.NewReader("PNGDATA")), ContentType: "image/png", Size: 7, ETag: "abc",
	}, nil)
	h := NewStructureHandler(newTestViews(t), svc, nil, nil)

	rec := serve(newStructureRouter(h), http.MethodGet, "/molecule/"+structure.Quote(water), "If-None-Match", `"abc"`)
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestStructureHandler_DrawGroup_Missing(t *testing.T) {
	svc := &mockDepictions{}
	svc.On("Get", mock.Anything, mock.Anything).
		Return(nil, errors.New(errors.ErrCodeDepictionNotFound, "structure depiction not found").WithDetail("group/ab"))
	h := NewStructureHandler(newTestViews(t), svc, nil, nil)

	rec := serve(newStructureRouter(h), http.MethodGet, reverse(t, routes.DrawGroup, structure.Quote(carbonyl)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "IMG_001")
}

func TestStructureHandler_Draw_NoStorage(t *testing.T) {
	h := NewStructureHandler(newTestViews(t), nil, nil, nil)

	rec := serve(newStructureRouter(h), http.MethodGet, "/molecule/"+structure.Quote(water))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStructureHandler_Draw_StorageErrorMasked(t *testing.T) {
	svc := &mockDepictions{}
	svc.On("Get", mock.Anything, mock.Anything).
		Return(nil, errors.Wrap(stderrors.New("connection reset by peer"), errors.ErrCodeStorage, "failed to fetch object"))
	log := testutil.NewMockLogger()
	h := NewStructureHandler(newTestViews(t), svc, log, nil)

	rec := serve(newStructureRouter(h), http.MethodGet, "/molecule/"+structure.Quote(water))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
	assert.NotContains(t, rec.Body.String(), "connection reset")
	assert.True(t, log.HasMessage("error", "request failed"))
}

func TestErrorPage(t *testing.T) {
	ep := errorPage(errors.New(errors.ErrCodeAdjacencyListInvalid, "invalid adjacency list").WithDetail("line 1: bad bond"))
	assert.Equal(t, http.StatusBadRequest, ep.Status)
	assert.Equal(t, "invalid adjacency list: line 1: bad bond", ep.Message)
	assert.Equal(t, "STR_001", ep.Code)

	ep = errorPage(stderrors.New("plain"))
	assert.Equal(t, http.StatusInternalServerError, ep.Status)
	assert.Equal(t, "internal server error", ep.Message)
	assert.Equal(t, "UNKNOWN", ep.Code)
}

//Personal.AI order the ending
