package http

import (
	"net/http"
	"strconv"

	"github.com/abdullah-iqbal-cbs/CBS-main/internal/domain"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/dto"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func (d Deps) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := queryInt(q.Get("page"), 1)
	limit := queryInt(q.Get("limit"), 0)

	users, meta, err := d.Directory.ListUsers(r.Context(), q.Get("search"), page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.UserListResponse{Success: true, Data: users, Meta: meta})
}

func (d Deps) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, domain.ErrUserNotFound)
		return
	}
	user, err := d.Directory.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: user})
}

func (d Deps) listContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := d.Directory.ListContacts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: contacts})
}

func (d Deps) getContact(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, r, domain.ErrContactNotFound)
		return
	}
	c, err := d.Directory.GetContactByUserID(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: c})
}

// queryInt parses a positive integer, falling back to def.
func queryInt(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
