// Package handlers implements the site's HTTP handlers.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/rmgweb/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/rmgweb/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/rmgweb/internal/interfaces/http/views"
	"github.com/turtacn/rmgweb/pkg/errors"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorPage is the data behind the error template.
type ErrorPage struct {
	Status     int
	StatusText string
	Message    string
	Code       string
}

// errorPage maps err to a status and the page shown for it.  Server errors
// get a generic message; the detail only goes to the log.
func errorPage(err error) ErrorPage {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	msg := err.Error()
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
		if appErr.Detail != "" && status < http.StatusInternalServerError {
			msg += ": " + appErr.Detail
		}
	}
	if status >= http.StatusInternalServerError {
		msg = "internal server error"
	}
	return ErrorPage{Status: status, StatusText: http.StatusText(status), Message: msg, Code: code.String()}
}

// pageWriter renders pages and error pages for one handler.
type pageWriter struct {
	views   *views.Views
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

func (p pageWriter) render(w http.ResponseWriter, r *http.Request, page, title string, data interface{}) {
	if err := p.views.RenderHTTP(w, r, http.StatusOK, page, title, data); err != nil {
		p.fail(w, r, err)
	}
}

// fail logs err and writes the error page for it.  If the error page itself
// cannot be rendered a plain-text body is written instead.
func (p pageWriter) fail(w http.ResponseWriter, r *http.Request, err error) {
	ep := errorPage(err)
	log := p.logger.WithContext(r.Context()).WithError(err)
	if ep.Status >= http.StatusInternalServerError {
		log.Error("request failed", logging.String("path", r.URL.Path), logging.Int("status", ep.Status))
	} else {
		log.Debug("request rejected", logging.String("path", r.URL.Path), logging.Int("status", ep.Status))
	}
	prometheus.RecordError(p.metrics, "http", ep.Code)

	if p.views != nil {
		if rerr := p.views.RenderHTTP(w, r, ep.Status, views.PageError, ep.StatusText, ep); rerr == nil {
			return
		}
	}
	http.Error(w, ep.Message, ep.Status)
}

// trailingParam returns the still-escaped part of the request path matched by
// the route's trailing "*".
func trailingParam(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return ""
	}
	prefix := strings.TrimSuffix(rctx.RoutePattern(), "*")
	if p := r.URL.EscapedPath(); prefix != "" && strings.HasPrefix(p, prefix) {
		return p[len(prefix):]
	}
	return rctx.URLParam("*")
}

//Personal.AI order the ending
