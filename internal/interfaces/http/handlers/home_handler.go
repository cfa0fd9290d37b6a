package handlers

import (
	"net/http"

	domain "github.com/turtacn/rmgweb/internal/domain/structure"
	"github.com/turtacn/rmgweb/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/rmgweb/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/rmgweb/internal/interfaces/http/views"
)

// DatabasePage is the data behind the database index.
type DatabasePage struct {
	Examples []domain.Object
}

// HomeHandler serves the static landing pages.
type HomeHandler struct {
	pages    pageWriter
	examples []domain.Object
}

// NewHomeHandler creates a HomeHandler.  examples are linked from the
// database index.
func NewHomeHandler(v *views.Views, logger logging.Logger, metrics *prometheus.AppMetrics, examples ...domain.Object) *HomeHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &HomeHandler{
		pages:    pageWriter{views: v, logger: logger, metrics: metrics},
		examples: examples,
	}
}

// Home handles GET /.
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.pages.render(w, r, views.PageHome, "", nil)
}

// DatabaseIndex handles GET /database/.
func (h *HomeHandler) DatabaseIndex(w http.ResponseWriter, r *http.Request) {
	h.pages.render(w, r, views.PageDatabase, "Database", DatabasePage{Examples: h.examples})
}

//Personal.AI order the ending
