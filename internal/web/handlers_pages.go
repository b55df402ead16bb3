package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/tsimport/internal/web/views"
)

// recentImportsOnIndex is how many imports the landing page lists.
const recentImportsOnIndex = 25

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	imports, err := s.service.ListImports(r.Context(), recentImportsOnIndex)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render(w, r, views.Layout("Imports", views.ImportList(imports)))
}

func (s *Server) handleImportPage(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.GetImport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render(w, r, views.Layout(result.Import.FileName, views.ImportDetail(result)))
}
