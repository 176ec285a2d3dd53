package project

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// OwnerHeader carries the id of the requesting user.
const OwnerHeader = "X-Utopia-Owner"

// AnonymousOwner owns projects saved without an OwnerHeader.
const AnonymousOwner = "anonymous"

// DefaultMaxAssetBytes bounds an uploaded asset.
const DefaultMaxAssetBytes = 16 << 20

// Server serves a Store over HTTP.
type Server struct {
	store         *Store
	logger        *slog.Logger
	maxAssetBytes int64
}

// NewServer creates a server over store.
func NewServer(store *Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: store, logger: logger, maxAssetBytes: DefaultMaxAssetBytes}
}

// SetMaxAssetBytes changes the upload limit.
func (s *Server) SetMaxAssetBytes(n int64) {
	if n > 0 {
		s.maxAssetBytes = n
	}
}

// Handler returns the HTTP handler with the standard middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	s.RegisterHTTP(r)
	return r
}

// RegisterHTTP registers the project endpoints on r.
func (s *Server) RegisterHTTP(r chi.Router) {
	r.Post("/v1/projectid", s.handleCreateID)
	r.Get("/v1/projects", s.handleList)
	r.Get("/v1/project/{id}", s.handleLoad)
	r.Put("/v1/project/{id}", s.handleSave)
	r.Delete("/v1/project/{id}", s.handleDelete)
	r.Post("/v1/project/{id}/restore", s.handleRestore)
	r.Post("/v1/project/{id}/destroy", s.handleDestroy)

	r.Get("/v1/thumbnail/{id}", s.handleGetThumbnail)
	r.Post("/v1/thumbnail/{id}", s.handleSaveThumbnail)

	r.Route("/v1/asset/{id}/{file}", func(r chi.Router) {
		r.Get("/", s.handleGetAsset)
		r.Post("/", s.handleSaveAsset)
		r.Put("/", s.handleRenameAsset)
		r.Delete("/", s.handleDeleteAsset)
	})
}

func owner(r *http.Request) string {
	if o := r.Header.Get(OwnerHeader); o != "" {
		return o
	}
	return AnonymousOwner
}

func (s *Server) handleCreateID(w http.ResponseWriter, r *http.Request) {
	id, err := s.store.CreateProjectID(r.Context(), owner(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreateResponse{ID: id})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := loadedResponse(p)
	if last := r.URL.Query().Get("last_saved"); last != "" && last == resp.ModifiedAt {
		resp = LoadResponse{Type: KindProjectUnchanged, ID: p.ID}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid save request", http.StatusBadRequest)
		return
	}
	if string(req.Content) == "null" {
		req.Content = nil
	}
	p, err := s.store.Save(r.Context(), chi.URLParam(r, "id"), owner(r), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SaveResponse{ID: p.ID, OwnerID: p.OwnerID})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	deleted := false
	if v := r.URL.Query().Get("deleted"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "invalid deleted flag", http.StatusBadRequest)
			return
		}
		deleted = b
	}
	projects, err := s.store.ListProjects(r.Context(), owner(r), deleted)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse{Projects: projects})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.lifecycle(w, r, s.store.DeleteProject)
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	s.lifecycle(w, r, s.store.RestoreProject)
}

func (s *Server) handleDestroy(w http.ResponseWriter, r *http.Request) {
	s.lifecycle(w, r, s.store.DestroyProject)
}

func (s *Server) lifecycle(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id, owner string) error) {
	if err := op(r.Context(), chi.URLParam(r, "id"), owner(r)); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetThumbnail(w http.ResponseWriter, r *http.Request) {
	img, err := s.store.Thumbnail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", img.ContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(img.Data)
}

func (s *Server) handleSaveThumbnail(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxAssetBytes))
	if err != nil {
		http.Error(w, "thumbnail too large", http.StatusRequestEntityTooLarge)
		return
	}
	img := Image{ContentType: r.Header.Get("Content-Type"), Data: data}
	if err := s.store.SaveThumbnail(r.Context(), chi.URLParam(r, "id"), owner(r), img); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// authorize checks that the requester owns project id.
func (s *Server) authorize(r *http.Request, id string) error {
	p, err := s.store.Load(r.Context(), id)
	if err != nil {
		return err
	}
	if p.OwnerID != owner(r) {
		return ErrForbidden
	}
	return nil
}

func (s *Server) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	a, err := s.store.Asset(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "file"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", a.ContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(a.Data)
}

func (s *Server) handleSaveAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.authorize(r, id); err != nil {
		s.fail(w, r, err)
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxAssetBytes))
	if err != nil {
		http.Error(w, "asset too large", http.StatusRequestEntityTooLarge)
		return
	}
	err = s.store.SaveAsset(r.Context(), Asset{
		ProjectID:   id,
		FileName:    chi.URLParam(r, "file"),
		ContentType: r.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenameAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	oldName := r.URL.Query().Get("old_file_name")
	if oldName == "" {
		http.Error(w, "missing old_file_name", http.StatusBadRequest)
		return
	}
	if err := s.authorize(r, id); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.RenameAsset(r.Context(), id, oldName, chi.URLParam(r, "file")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.authorize(r, id); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.DeleteAsset(r.Context(), id, chi.URLParam(r, "file")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail maps store errors to status codes.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrProjectNotFound), errors.Is(err, ErrAssetNotFound), errors.Is(err, ErrThumbnailNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrInvalidName), errors.Is(err, ErrEmptyThumbnail):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
