package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartfarming/farm-client/internal/core/domain"
)

// SessionReader exposes the current session state.
type SessionReader interface {
	State() domain.SessionState
}

// SessionHandler handles GET /debug/session. The bearer token is never
// part of the response.
type SessionHandler struct {
	sessions SessionReader
}

func NewSessionHandler(sessions SessionReader) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type sessionResponse struct {
	Ready    bool             `json:"ready"`
	LoggedIn bool             `json:"loggedIn"`
	Identity *domain.Identity `json:"identity,omitempty"`
}

func (h *SessionHandler) Show(c echo.Context) error {
	st := h.sessions.State()
	resp := sessionResponse{Ready: st.Ready, LoggedIn: st.LoggedIn()}
	if st.LoggedIn() {
		id := st.Session.Identity
		resp.Identity = &id
	}
	return c.JSON(http.StatusOK, resp)
}
