package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/turtacn/rmgweb/internal/application/structure"
	domain "github.com/turtacn/rmgweb/internal/domain/structure"
	"github.com/turtacn/rmgweb/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/rmgweb/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/rmgweb/internal/infrastructure/storage/minio"
	"github.com/turtacn/rmgweb/internal/interfaces/http/views"
)

// DepictionService finds stored structure images.
type DepictionService interface {
	Get(ctx context.Context, obj domain.Object) (*minio.Object, error)
}

// MoleculePage is the data behind the molecule info page.
type MoleculePage struct {
	Molecule        *domain.Molecule
	AdjacencyList   string
	Formula         string
	AtomCount       int
	Multiplicity    int
	MolecularWeight float64
	HasWeight       bool
}

// GroupPage is the data behind the group info page.
type GroupPage struct {
	Group         *domain.Group
	AdjacencyList string
}

// StructureHandler serves the per-structure pages and images.  Every route
// takes the escaped adjacency list as its trailing path segment.
type StructureHandler struct {
	pages      pageWriter
	depictions DepictionService
	logger     logging.Logger
	metrics    *prometheus.AppMetrics
}

// NewStructureHandler creates a StructureHandler.  depictions may be nil, in
// which case every image request is a 404.
func NewStructureHandler(v *views.Views, depictions DepictionService, logger logging.Logger, metrics *prometheus.AppMetrics) *StructureHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &StructureHandler{
		pages:      pageWriter{views: v, logger: logger, metrics: metrics},
		depictions: depictions,
		logger:     logger,
		metrics:    metrics,
	}
}

func (h *StructureHandler) molecule(r *http.Request) (*domain.Molecule, error) {
	m, err := structure.MoleculeFromURL(trailingParam(r))
	prometheus.RecordDecode(h.metrics, string(domain.KindMolecule), err)
	return m, err
}

func (h *StructureHandler) group(r *http.Request) (*domain.Group, error) {
	g, err := structure.GroupFromURL(trailingParam(r))
	prometheus.RecordDecode(h.metrics, string(domain.KindGroup), err)
	return g, err
}

// MoleculeInfo handles GET /database/molecule/{adjlist}.
func (h *StructureHandler) MoleculeInfo(w http.ResponseWriter, r *http.Request) {
	m, err := h.molecule(r)
	if err != nil {
		h.pages.fail(w, r, err)
		return
	}

	page := MoleculePage{
		Molecule:      m,
		AdjacencyList: m.AdjacencyList(),
		Formula:       m.Formula(),
		AtomCount:     m.AtomCount(),
		Multiplicity:  m.Multiplicity(),
	}
	page.MolecularWeight, page.HasWeight = m.MolecularWeight()
	h.pages.render(w, r, views.PageMolecule, page.Formula, page)
}

// GroupInfo handles GET /database/group/{adjlist}.
func (h *StructureHandler) GroupInfo(w http.ResponseWriter, r *http.Request) {
	g, err := h.group(r)
	if err != nil {
		h.pages.fail(w, r, err)
		return
	}
	h.pages.render(w, r, views.PageGroup, "Group", GroupPage{Group: g, AdjacencyList: g.AdjacencyList()})
}

// DrawMolecule handles GET /molecule/{adjlist}.
func (h *StructureHandler) DrawMolecule(w http.ResponseWriter, r *http.Request) {
	m, err := h.molecule(r)
	if err != nil {
		h.pages.fail(w, r, err)
		return
	}
	h.serveDepiction(w, r, m)
}

// DrawGroup handles GET /group/{adjlist}.
func (h *StructureHandler) DrawGroup(w http.ResponseWriter, r *http.Request) {
	g, err := h.group(r)
	if err != nil {
		h.pages.fail(w, r, err)
		return
	}
	h.serveDepiction(w, r, g)
}

func (h *StructureHandler) serveDepiction(w http.ResponseWriter, r *http.Request, obj domain.Object) {
	if h.depictions == nil {
		http.NotFound(w, r)
		return
	}

	img, err := h.depictions.Get(r.Context(), obj)
	if err != nil {
		h.pages.fail(w, r, err)
		return
	}
	defer img.Body.Close()

	if img.ContentType != "" {
		w.Header().Set("Content-Type", img.ContentType)
	}
	if img.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(img.Size, 10))
	}
	if img.ETag != "" {
		w.Header().Set("ETag", `"`+img.ETag+`"`)
		if r.Header.Get("If-None-Match") == `"`+img.ETag+`"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, img.Body); err != nil {
		h.logger.WithContext(r.Context()).WithError(err).Warn("depiction stream interrupted",
			logging.String(logging.FieldKind, string(obj.Kind())))
	}
}

//Personal.AI order the ending
