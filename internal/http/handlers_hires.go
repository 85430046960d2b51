package httpx

import (
	"net/http"

	"github.com/iynfluencer/creator-service/internal/service"
)

// HireHandlers serves the creator's hires and the paid hire flow.
type HireHandlers struct {
	Svc      *service.HireService
	MaxLimit int
}

// HireBid accepts the bid in the path, pays for it and records the hire.
// The body is the payment service's reply.
func (h *HireHandlers) HireBid(w http.ResponseWriter, r *http.Request) {
	caller, _ := GetIdentityFromContext(r.Context())
	payment, err := h.Svc.HireAndPay(r.Context(), r.PathValue("id"), caller.CreatorID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, payment)
}

func (h *HireHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, h.MaxLimit, func(p listCall) (any, error) {
		return h.Svc.ListMine(p.r.Context(), p.caller.CreatorID, p.params)
	})
}

func (h *HireHandlers) GetMine(w http.ResponseWriter, r *http.Request) {
	caller, _ := GetIdentityFromContext(r.Context())
	doc, err := h.Svc.GetMine(r.Context(), r.PathValue("id"), caller.CreatorID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, doc)
}
