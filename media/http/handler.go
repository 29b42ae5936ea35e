package http

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/luminara-app/backend/httpjson"
	"github.com/luminara-app/backend/ident"
	"github.com/luminara-app/backend/logger"
	"github.com/luminara-app/backend/media"
	"github.com/luminara-app/backend/owner/auth"
)

type MediaHttpHandler struct {
	mgr *media.Manager
}

func NewMediaHttpHandler(mgr *media.Manager) *MediaHttpHandler {
	return &MediaHttpHandler{mgr: mgr}
}

func (h *MediaHttpHandler) RegisterRoutes(r *chi.Mux) {
	r.Post("/media", h.Upload)
	r.Get("/media", h.List)
	r.Delete("/media/{media-uuid}", h.Delete)
}

// MediaView is the attachment shape served over the wire.
type MediaView struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
	Status    string `json:"status"`
	Url       string `json:"url,omitempty"`
	CreatedAt string `json:"created_at"`
}

func mapMediaView(m *media.Media) MediaView {
	return MediaView{
		ID:        m.ID.String(),
		Kind:      string(m.Kind),
		MimeType:  m.MimeType,
		SizeBytes: int64(m.SizeBytes),
		Status:    string(m.Status),
		Url:       m.Url,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

// Upload accepts one multipart file field named "file" and stores it as
// the caller's attachment. Guests upload into the shared guest pool.
func (h *MediaHttpHandler) Upload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if err := r.ParseMultipartForm(media.MaxUploadBytes); err != nil {
		errMsg := "failed to parse multipart form (is the file too large?)"
		httpjson.WriteErrorJson(w, errMsg, http.StatusBadRequest, "failed_to_parse_multipart_form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpjson.WriteErrorJson(w, "missing file field", http.StatusBadRequest, "missing_file_field")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		httpjson.WriteErrorJson(w, "failed to read file", http.StatusBadRequest, "failed_to_read_file")
		return
	}

	log.Info("media upload request",
		"filename", header.Filename, "size_bytes", len(content))

	uploaded, err := h.mgr.Upload(r.Context(), resolveOwner(r), content)
	if err != nil {
		httpjson.HandleError(log, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, mapMediaView(uploaded))
}

func (h *MediaHttpHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	items, err := h.mgr.List(r.Context(), resolveOwner(r))
	if err != nil {
		httpjson.HandleError(log, w, err)
		return
	}

	views := make([]MediaView, 0, len(items))
	for i := range items {
		views = append(views, mapMediaView(&items[i]))
	}
	httpjson.WriteSuccessJson(w, views)
}

func (h *MediaHttpHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	idStr := chi.URLParam(r, "media-uuid")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.mgr.SoftDelete(r.Context(), resolveOwner(r), id); err != nil {
		httpjson.HandleError(log, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, nil)
}

// resolveOwner maps the caller's claims onto the owner the media rows
// belong to, falling back to the guest owner.
func resolveOwner(r *http.Request) uuid.UUID {
	claims, _ := r.Context().Value(auth.CtxJwtClaimsKey).(*auth.JwtClaims)
	if claims != nil {
		if id, err := uuid.Parse(claims.UUID); err == nil {
			return id
		}
	}
	return uuid.MustParse(ident.GuestOwnerID)
}
