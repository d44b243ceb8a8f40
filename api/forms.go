package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Umesh-Verma07/AynaForm/internal/services"
	"github.com/Umesh-Verma07/AynaForm/pkg/models"
)

type FormsHandler struct {
	forms     *services.FormService
	validator *Validator
}

func NewFormsHandler(svc *services.FormService, v *Validator) *FormsHandler {
	return &FormsHandler{forms: svc, validator: v}
}

func (h *FormsHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(r)
	if !ok {
		writeError(w, r, services.NewUnauthorizedError("No token provided"))
		return
	}
	var in models.FormInput
	if err := h.validator.Decode(w, r, schemaForm, &in); err != nil {
		writeError(w, r, err)
		return
	}
	form, err := h.forms.CreateForm(r.Context(), caller.ID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, form, http.StatusCreated)
}

func (h *FormsHandler) ListForms(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(r)
	if !ok {
		writeError(w, r, services.NewUnauthorizedError("No token provided"))
		return
	}
	forms, err := h.forms.ListForms(r.Context(), caller.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, forms, http.StatusOK)
}

// GetForm is public: respondents load the form they are about to answer.
func (h *FormsHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	form, err := h.forms.GetForm(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, form, http.StatusOK)
}

func (h *FormsHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(r)
	if !ok {
		writeError(w, r, services.NewUnauthorizedError("No token provided"))
		return
	}
	var in models.FormInput
	if err := h.validator.Decode(w, r, schemaForm, &in); err != nil {
		writeError(w, r, err)
		return
	}
	form, err := h.forms.UpdateForm(r.Context(), caller.ID, mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, form, http.StatusOK)
}

func (h *FormsHandler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(r)
	if !ok {
		writeError(w, r, services.NewUnauthorizedError("No token provided"))
		return
	}
	if err := h.forms.DeleteForm(r.Context(), caller.ID, mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, messageResponse{Message: "Form and responses deleted"}, http.StatusOK)
}

func (h *FormsHandler) DeleteQuestionAnswers(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(r)
	if !ok {
		writeError(w, r, services.NewUnauthorizedError("No token provided"))
		return
	}
	vars := mux.Vars(r)
	if err := h.forms.DeleteQuestionAnswers(r.Context(), caller.ID, vars["id"], vars["qid"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, messageResponse{Message: "Responses for question deleted"}, http.StatusOK)
}
