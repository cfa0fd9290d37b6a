// Package depiction looks up and stores pre-rendered structure images.  The
// site has no drawing engine; images are uploaded ahead of time and found by
// a digest of the structure's label-free adjacency list.
package depiction

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"

	domain "github.com/turtacn/rmgweb/internal/domain/structure"
	"github.com/turtacn/rmgweb/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/rmgweb/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/rmgweb/internal/infrastructure/storage/minio"
	"github.com/turtacn/rmgweb/pkg/errors"
)

var allowedContentTypes = map[string]string{
	"image/png":     ".png",
	"image/svg+xml": ".svg",
	"image/gif":     ".gif",
	"image/jpeg":    ".jpg",
}

// Service finds depictions for molecules and groups.
type Service struct {
	store   minio.ObjectStore
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// NewService returns a Service over store.  A nil store makes every lookup
// miss, which is how the site runs without object storage.
func NewService(store minio.ObjectStore, logger logging.Logger, metrics *prometheus.AppMetrics) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Service{store: store, logger: logger, metrics: metrics}
}

// Key returns the object key for obj: "<kind>/<sha256 of adjlist>".  Labels do
// not affect the key.  Only molecules and groups have depictions.
func Key(obj domain.Object) (string, error) {
	v := &keyVisitor{}
	if obj != nil {
		obj.Accept(v)
	}
	if v.adjlist == "" {
		kind := "nil"
		if obj != nil {
			kind = string(obj.Kind())
		}
		return "", errors.New(errors.ErrCodeStructureInvalid, "only molecules and groups have depictions").WithDetail(kind)
	}
	sum := sha256.Sum256([]byte(v.adjlist))
	return string(obj.Kind()) + "/" + hex.EncodeToString(sum[:]), nil
}

// Get opens the depiction of obj.  A missing image is ErrCodeDepictionNotFound.
func (s *Service) Get(ctx context.Context, obj domain.Object) (*minio.Object, error) {
	key, err := Key(obj)
	if err != nil {
		return nil, err
	}
	kind := string(obj.Kind())

	if s.store == nil {
		prometheus.RecordDepiction(s.metrics, kind, "missing", 0)
		return nil, errors.New(errors.ErrCodeDepictionNotFound, "depiction storage is not configured").WithDetail(key)
	}

	o, err := s.store.Get(ctx, key)
	switch {
	case err == nil:
		prometheus.RecordDepiction(s.metrics, kind, "served", o.Size)
		return o, nil
	case errors.Is(err, minio.ErrObjectNotFound):
		prometheus.RecordDepiction(s.metrics, kind, "missing", 0)
		return nil, errors.New(errors.ErrCodeDepictionNotFound, errors.DefaultMessageForCode(errors.ErrCodeDepictionNotFound)).WithDetail(key)
	default:
		prometheus.RecordDepiction(s.metrics, kind, "error", 0)
		s.logger.WithContext(ctx).WithError(err).Error("depiction lookup failed", logging.String(logging.FieldObjectKey, key))
		return nil, err
	}
}

// Exists reports whether obj has a stored depiction.
func (s *Service) Exists(ctx context.Context, obj domain.Object) (bool, error) {
	key, err := Key(obj)
	if err != nil {
		return false, err
	}
	if s.store == nil {
		return false, nil
	}
	return s.store.Exists(ctx, key)
}

// Upload stores r as the depiction of obj.  Any existing image is replaced.
func (s *Service) Upload(ctx context.Context, obj domain.Object, r io.Reader, size int64, contentType string) (*minio.ObjectInfo, error) {
	key, err := Key(obj)
	if err != nil {
		return nil, err
	}
	if _, ok := allowedContentTypes[contentType]; !ok {
		return nil, errors.New(errors.ErrCodeBadRequest, "unsupported image type").WithDetail(contentType)
	}
	if s.store == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "depiction storage is not configured")
	}

	info, err := s.store.Put(ctx, key, r, size, contentType)
	if err != nil {
		return nil, err
	}
	s.logger.WithContext(ctx).Info("depiction stored",
		logging.String(logging.FieldObjectKey, key),
		logging.String(logging.FieldKind, string(obj.Kind())),
		logging.Int64("size", info.Size))
	return info, nil
}

// ContentTypeForExtension maps a file extension (".png") to the content type
// Upload accepts, or "" when the extension is not an image type we serve.
func ContentTypeForExtension(ext string) string {
	for ct, e := range allowedContentTypes {
		if e == ext {
			return ct
		}
	}
	if ext == ".jpeg" {
		return "image/jpeg"
	}
	return ""
}

type keyVisitor struct {
	adjlist string
}

func (v *keyVisitor) VisitMolecule(m *domain.Molecule) { v.adjlist = m.WithoutLabels().AdjacencyList() }
func (v *keyVisitor) VisitGroup(g *domain.Group)       { v.adjlist = g.WithoutLabels().AdjacencyList() }

func (v *keyVisitor) VisitSpecies(*domain.Species)        {}
func (v *keyVisitor) VisitEntry(*domain.Entry)            {}
func (v *keyVisitor) VisitText(domain.Text)               {}
func (v *keyVisitor) VisitUnsupported(domain.Unsupported) {}

//Personal.AI order the ending
