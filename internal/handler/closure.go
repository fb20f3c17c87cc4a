package handler

import (
	"net/http"
	"time"

	"github.com/ideahub-dev/ideahub/internal/api"
	"github.com/ideahub-dev/ideahub/internal/domain"
	"github.com/ideahub-dev/ideahub/internal/service"
	"github.com/ideahub-dev/ideahub/internal/utils"
)

func (h *Handler) CreateClosure(w http.ResponseWriter, r *http.Request) {
	var body api.CreateClosureRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	closure, err := h.closure.Create(body.StartDate, body.InitialClosureDate, body.FinalClosureDate)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSONStatus(w, http.StatusCreated, api.ClosureResponse{Closure: closure})
}

func (h *Handler) GetClosure(w http.ResponseWriter, r *http.Request) {
	closure, err := h.closure.Get()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, api.ClosureResponse{Closure: closure})
}

// SubmissionStatus exposes the gate decision so clients can disable the
// submission form without replicating the date rules.
func (h *Handler) SubmissionStatus(w http.ResponseWriter, r *http.Request) {
	closure, err := h.closure.Get()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	open, reason := service.IsOpenForSubmission(closure, time.Now())
	writeJSON(w, api.GateResponse{Open: open, Reason: reason})
}

func (h *Handler) UpdateClosure(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var body api.UpdateClosureRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	message, err := h.closure.Update(id, domain.ClosureUpdate{
		StartDate:          body.StartDate,
		InitialClosureDate: body.InitialClosureDate,
		FinalClosureDate:   body.FinalClosureDate,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.MessageResponse{Message: message})
}

func (h *Handler) DeleteClosure(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.closure.Remove(id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
