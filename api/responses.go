package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Umesh-Verma07/AynaForm/internal/services"
	"github.com/Umesh-Verma07/AynaForm/pkg/models"
)

type ResponsesHandler struct {
	responses *services.ResponseService
	validator *Validator
}

func NewResponsesHandler(svc *services.ResponseService, v *Validator) *ResponsesHandler {
	return &ResponsesHandler{responses: svc, validator: v}
}

// Submit accepts an anonymous response.
func (h *ResponsesHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in models.SubmissionInput
	if err := h.validator.Decode(w, r, schemaSubmission, &in); err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.responses.Submit(r.Context(), mux.Vars(r)["id"], in.Answers)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, messageResponse{Message: "Response submitted", ID: resp.ID}, http.StatusCreated)
}

func (h *ResponsesHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(r)
	if !ok {
		writeError(w, r, services.NewUnauthorizedError("No token provided"))
		return
	}
	responses, err := h.responses.ListResponses(r.Context(), caller.ID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, responses, http.StatusOK)
}

func (h *ResponsesHandler) Summary(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(r)
	if !ok {
		writeError(w, r, services.NewUnauthorizedError("No token provided"))
		return
	}
	summary, err := h.responses.Summary(r.Context(), caller.ID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, summary, http.StatusOK)
}

func (h *ResponsesHandler) Export(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(r)
	if !ok {
		writeError(w, r, services.NewUnauthorizedError("No token provided"))
		return
	}
	id := mux.Vars(r)["id"]
	csv, err := h.responses.Export(r.Context(), caller.ID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="form_%s_responses.csv"`, id))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(csv); err != nil {
		logger.Error("write csv", slog.Any("err", err))
	}
}
