package structure

import (
	"context"
	"html"
	"time"

	domain "github.com/turtacn/rmgweb/internal/domain/structure"
	"github.com/turtacn/rmgweb/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/rmgweb/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/rmgweb/pkg/errors"
)

// Route names the markup links to.  The HTTP layer registers handlers under
// these names.
const (
	RouteMoleculeEntry = "database.molecule"
	RouteGroupEntry    = "database.group"
	RouteDrawMolecule  = "draw.molecule"
	RouteDrawGroup     = "draw.group"

	// RouteParamAdjlist is the parameter every structure route takes.
	RouteParamAdjlist = "adjlist"
)

// URLResolver turns a route name and its parameters into a path.  Parameter
// values are escaped by the resolver; existing %XX escapes are kept as-is.
type URLResolver interface {
	Reverse(name string, params map[string]string) (string, error)
}

// Renderer produces the HTML fragments templates embed for a structure.  The
// returned strings are trusted HTML.  Adjacency lists and labels placed in
// alt and title attributes are escaped, but the label of a species without
// molecules and the content of Text are emitted unchanged.  Callers must only
// build those from markup they already trust.
type Renderer interface {
	// StructureInfo returns a linked image for a molecule, species or group
	// (unwrapping one Entry level), or "" for anything else.
	StructureInfo(ctx context.Context, obj domain.Object) (string, error)

	// StructureMarkup returns an image tag for a molecule, species or group,
	// the text itself for Text, the label for a species without molecules, or
	// "" for anything else including an Entry.
	StructureMarkup(ctx context.Context, obj domain.Object) (string, error)
}

// MarkupBuilder is the uncached Renderer.
type MarkupBuilder struct {
	resolver URLResolver
	logger   logging.Logger
	metrics  *prometheus.AppMetrics
}

// MarkupOption configures a MarkupBuilder.
type MarkupOption func(*MarkupBuilder)

func WithMarkupLogger(l logging.Logger) MarkupOption {
	return func(b *MarkupBuilder) { b.logger = l }
}

func WithMarkupMetrics(m *prometheus.AppMetrics) MarkupOption {
	return func(b *MarkupBuilder) { b.metrics = m }
}

// NewMarkupBuilder returns a MarkupBuilder that resolves links with resolver.
func NewMarkupBuilder(resolver URLResolver, opts ...MarkupOption) *MarkupBuilder {
	b := &MarkupBuilder{resolver: resolver, logger: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// StructureInfo implements Renderer.
func (b *MarkupBuilder) StructureInfo(ctx context.Context, obj domain.Object) (string, error) {
	if obj == nil {
		return "", nil
	}
	obj = domain.Unwrap(obj)
	if obj == nil {
		return "", nil
	}

	start := time.Now()
	v := &infoVisitor{b: b}
	obj.Accept(v)
	b.finish(ctx, "info", obj.Kind(), start, v.err)
	return v.out, v.err
}

// StructureMarkup implements Renderer.
func (b *MarkupBuilder) StructureMarkup(ctx context.Context, obj domain.Object) (string, error) {
	if obj == nil {
		return "", nil
	}

	start := time.Now()
	v := &markupVisitor{b: b}
	obj.Accept(v)
	b.finish(ctx, "markup", obj.Kind(), start, v.err)
	return v.out, v.err
}

func (b *MarkupBuilder) finish(ctx context.Context, op string, kind domain.Kind, start time.Time, err error) {
	prometheus.RecordMarkup(b.metrics, op, string(kind), time.Since(start))
	if err != nil {
		b.logger.WithContext(ctx).WithError(err).Error("structure markup failed",
			logging.String("operation", op), logging.String(logging.FieldKind, string(kind)))
		prometheus.RecordError(b.metrics, "markup", errors.GetCode(err).String())
	}
}

// MoleculeToInfo wraps the molecule's image in a link to its info page.  The
// link carries the adjacency list as written, labels included.
func (b *MarkupBuilder) MoleculeToInfo(m *domain.Molecule) (string, error) {
	adjlist := m.AdjacencyList()
	href, err := b.reverse(RouteMoleculeEntry, adjlist)
	if err != nil {
		return "", err
	}
	img, err := b.moleculeImage(adjlist, adjlist)
	if err != nil {
		return "", err
	}
	return anchor(href, img), nil
}

// GroupToInfo wraps the group's image in a link to its info page.
func (b *MarkupBuilder) GroupToInfo(g *domain.Group) (string, error) {
	href, err := b.reverse(RouteGroupEntry, g.AdjacencyList())
	if err != nil {
		return "", err
	}
	img, err := b.groupImage(g)
	if err != nil {
		return "", err
	}
	return anchor(href, img), nil
}

// moleculeImage renders the drawing endpoint image for adjlist with title as
// both alt and title text.
func (b *MarkupBuilder) moleculeImage(adjlist, title string) (string, error) {
	src, err := b.reverse(RouteDrawMolecule, Quote(adjlist))
	if err != nil {
		return "", err
	}
	prometheus.RecordEncode(b.metrics, string(domain.KindMolecule))
	t := html.EscapeString(title)
	return `<img src="` + html.EscapeString(src) + `" alt="` + t + `" title="` + t + `"/>`, nil
}

func (b *MarkupBuilder) groupImage(g *domain.Group) (string, error) {
	adjlist := g.AdjacencyList()
	src, err := b.reverse(RouteDrawGroup, Quote(adjlist))
	if err != nil {
		return "", err
	}
	prometheus.RecordEncode(b.metrics, string(domain.KindGroup))
	t := html.EscapeString(adjlist)
	return `<img src="` + html.EscapeString(src) + `" alt="` + t + `" title="` + t + `" />`, nil
}

func (b *MarkupBuilder) reverse(name, adjlist string) (string, error) {
	if b.resolver == nil {
		return "", errors.New(errors.ErrCodeRouteNotFound, "no URL resolver configured").WithDetail(name)
	}
	return b.resolver.Reverse(name, map[string]string{RouteParamAdjlist: adjlist})
}

func anchor(href, inner string) string {
	return `<a href="` + html.EscapeString(href) + `">` + inner + `</a>`
}

// ─────────────────────────────────────────────────────────────────────────────
// Visitors
// ─────────────────────────────────────────────────────────────────────────────

type infoVisitor struct {
	b   *MarkupBuilder
	out string
	err error
}

func (v *infoVisitor) VisitMolecule(m *domain.Molecule) { v.out, v.err = v.b.MoleculeToInfo(m) }
func (v *infoVisitor) VisitGroup(g *domain.Group)       { v.out, v.err = v.b.GroupToInfo(g) }

// A species without molecules has nothing to link to, so its label is shown
// the same way StructureMarkup shows it.
func (v *infoVisitor) VisitSpecies(s *domain.Species) {
	if m, ok := s.Primary(); ok {
		v.out, v.err = v.b.MoleculeToInfo(m)
		return
	}
	v.out = s.Label
}

func (v *infoVisitor) VisitEntry(*domain.Entry)            {}
func (v *infoVisitor) VisitText(domain.Text)               {}
func (v *infoVisitor) VisitUnsupported(domain.Unsupported) {}

type markupVisitor struct {
	b   *MarkupBuilder
	out string
	err error
}

func (v *markupVisitor) VisitMolecule(m *domain.Molecule) {
	adjlist := m.AdjacencyList()
	v.out, v.err = v.b.moleculeImage(adjlist, adjlist)
}

func (v *markupVisitor) VisitGroup(g *domain.Group) { v.out, v.err = v.b.groupImage(g) }

func (v *markupVisitor) VisitSpecies(s *domain.Species) {
	m, ok := s.Primary()
	if !ok {
		v.out = s.Label
		return
	}
	v.out, v.err = v.b.moleculeImage(m.AdjacencyList(), s.Label)
}

func (v *markupVisitor) VisitEntry(*domain.Entry)            {}
func (v *markupVisitor) VisitText(t domain.Text)             { v.out = string(t) }
func (v *markupVisitor) VisitUnsupported(domain.Unsupported) {}

//Personal.AI order the ending
