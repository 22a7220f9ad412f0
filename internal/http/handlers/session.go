package handlers

import (
	"net/http"

	apierrors "github.com/avoronova/footstats-gateway/internal/errors"
	"github.com/avoronova/footstats-gateway/internal/http/middleware"
)

// Session — «кто сейчас залогинен» для навигационного хрома.
// Фронт дёргает этот эндпойнт на каждой смене маршрута, поэтому
// login/logout, сделанный на одной странице, виден на остальных без
// полной перезагрузки.
func (h *Handlers) Session(w http.ResponseWriter, r *http.Request) {
	sid := middleware.SessionID(r.Context())

	sess, err := h.Service.ResolveSession(r.Context(), sid)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sess)
}
