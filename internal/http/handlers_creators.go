package httpx

import (
	"net/http"

	"github.com/iynfluencer/creator-service/internal/domain/model"
	"github.com/iynfluencer/creator-service/internal/service"
)

// CreatorHandlers serves creator profiles and the admin views over them.
type CreatorHandlers struct {
	Svc      *service.CreatorService
	Hires    *service.HireService
	MaxLimit int
}

// Create registers a creator profile for the signed-in user.
func (h *CreatorHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCreatorRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	caller, _ := GetIdentityFromContext(r.Context())
	creator, err := h.Svc.Create(r.Context(), caller, &req)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, creator)
}

func (h *CreatorHandlers) GetMe(w http.ResponseWriter, r *http.Request) {
	caller, _ := GetIdentityFromContext(r.Context())
	creator, err := h.Svc.GetMe(r.Context(), caller.CreatorID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, creator)
}

func (h *CreatorHandlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateCreatorRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	caller, _ := GetIdentityFromContext(r.Context())
	creator, err := h.Svc.Update(r.Context(), caller.CreatorID, &req)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, creator)
}

// List is the public creator directory.
func (h *CreatorHandlers) List(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, h.MaxLimit, func(p listCall) (any, error) {
		return h.Svc.List(p.r.Context(), p.params)
	})
}

func (h *CreatorHandlers) GetOne(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Svc.GetOne(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, doc)
}

// AdminList returns a page of creators with the total profile count.
func (h *CreatorHandlers) AdminList(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, h.MaxLimit, func(p listCall) (any, error) {
		return h.Svc.AdminList(p.r.Context(), p.params)
	})
}

func (h *CreatorHandlers) ListByUser(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, h.MaxLimit, func(p listCall) (any, error) {
		return h.Svc.ListByUser(p.r.Context(), p.r.PathValue("userId"), p.params)
	})
}

// Transactions lists the hires paid for by the creator in the path.
func (h *CreatorHandlers) Transactions(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, h.MaxLimit, func(p listCall) (any, error) {
		return h.Hires.ListForCreator(p.r.Context(), p.r.PathValue("id"), p.params)
	})
}
