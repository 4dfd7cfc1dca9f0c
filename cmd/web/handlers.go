package main

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"quillmarketing.com/quill-web/internal/cms"
	handlersPkg "quillmarketing.com/quill-web/internal/handlers"
	"quillmarketing.com/quill-web/internal/observability"
)

// render executes the base layout. In dev mode, templates are reparsed on each request.
func (a *app) render(w http.ResponseWriter, r *http.Request, status int, data handlersPkg.PageData) {
	logger := observability.FromContext(r.Context())
	t, err := a.templates()
	if err != nil {
		logger.Error("template parse", zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	// Buffer so a failed execution doesn't leave a half-written page.
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		logger.Error("template exec", zap.String("template", data.Template), zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (a *app) fail(w http.ResponseWriter, r *http.Request, err error) {
	observability.FromContext(r.Context()).Error("build page", zap.String("path", r.URL.Path), zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// homeHandler renders the landing page.
func (a *app) homeHandler(w http.ResponseWriter, r *http.Request) {
	vm, err := a.pages.Home(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.render(w, r, http.StatusOK, vm)
}

func (a *app) pricingHandler(w http.ResponseWriter, r *http.Request) {
	vm, err := a.pages.Pricing(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.render(w, r, http.StatusOK, vm)
}

func (a *app) blogHandler(w http.ResponseWriter, r *http.Request) {
	vm, err := a.pages.Blog(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.render(w, r, http.StatusOK, vm)
}

func (a *app) articleHandler(w http.ResponseWriter, r *http.Request) {
	vm, err := a.pages.Article(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, cms.ErrNotFound) {
		a.notFoundHandler(w, r)
		return
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.render(w, r, http.StatusOK, vm)
}

func (a *app) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	vm, err := a.pages.NotFound(r.URL.Path)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.render(w, r, http.StatusNotFound, vm)
}
