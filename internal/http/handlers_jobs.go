package httpx

import (
	"net/http"

	"github.com/iynfluencer/creator-service/internal/domain/model"
	"github.com/iynfluencer/creator-service/internal/service"
)

// JobHandlers serves job postings, both the creator's own and the influencer feeds.
type JobHandlers struct {
	Svc      *service.JobService
	MaxLimit int
}

// Create posts a job owned by the calling creator.
func (h *JobHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateJobRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	caller, _ := GetIdentityFromContext(r.Context())
	job, err := h.Svc.Create(r.Context(), caller.CreatorID, &req)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, job)
}

func (h *JobHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, h.MaxLimit, func(p listCall) (any, error) {
		return h.Svc.ListMine(p.r.Context(), p.caller.CreatorID, p.params)
	})
}

func (h *JobHandlers) GetMine(w http.ResponseWriter, r *http.Request) {
	caller, _ := GetIdentityFromContext(r.Context())
	doc, err := h.Svc.GetMine(r.Context(), r.PathValue("id"), caller.CreatorID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, doc)
}

func (h *JobHandlers) UpdateMine(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateJobRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	caller, _ := GetIdentityFromContext(r.Context())
	job, err := h.Svc.Update(r.Context(), r.PathValue("id"), caller.CreatorID, &req)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

func (h *JobHandlers) DeleteMine(w http.ResponseWriter, r *http.Request) {
	caller, _ := GetIdentityFromContext(r.Context())
	if err := h.Svc.Delete(r.Context(), r.PathValue("id"), caller.CreatorID); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Complete closes a hired job and tells the influencer service to release payment.
func (h *JobHandlers) Complete(w http.ResponseWriter, r *http.Request) {
	caller, _ := GetIdentityFromContext(r.Context())
	job, err := h.Svc.MarkAsCompleted(r.Context(), r.PathValue("id"), caller.CreatorID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

func (h *JobHandlers) SendRequest(w http.ResponseWriter, r *http.Request) {
	var req model.SendJobRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	caller, _ := GetIdentityFromContext(r.Context())
	if err := h.Svc.SendJobRequest(r.Context(), caller, req); err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Job request sent"})
}

// ListOpen is the influencer marketplace feed.
func (h *JobHandlers) ListOpen(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, h.MaxLimit, func(p listCall) (any, error) {
		return h.Svc.ListOpen(p.r.Context(), p.caller, p.params)
	})
}

func (h *JobHandlers) ListForInfluencer(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, h.MaxLimit, func(p listCall) (any, error) {
		return h.Svc.ListForInfluencer(p.r.Context(), p.caller, p.params)
	})
}

func (h *JobHandlers) ListAll(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, h.MaxLimit, func(p listCall) (any, error) {
		return h.Svc.ListAll(p.r.Context(), p.params)
	})
}

func (h *JobHandlers) GetOne(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Svc.GetOne(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, doc)
}
