package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"invoice-backend/internal/models"
	"invoice-backend/pkg/utils"
)

type PersonService interface {
	CreatePerson(ctx context.Context, req *models.CreatePersonRequest) (*models.Person, error)
	GetPerson(ctx context.Context, name string) (*models.Person, error)
	ListPersons(ctx context.Context) ([]*models.Person, error)
	DeletePerson(ctx context.Context, name string) error
}

type PersonHandler struct {
	Service PersonService
}

func NewPersonHandler(s PersonService) *PersonHandler {
	return &PersonHandler{Service: s}
}

func (h *PersonHandler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePersonRequest
	if !decode(w, r, &req) {
		return
	}

	person, err := h.Service.CreatePerson(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, person)
}

func (h *PersonHandler) GetPerson(w http.ResponseWriter, r *http.Request) {
	person, err := h.Service.GetPerson(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, person)
}

func (h *PersonHandler) ListPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := h.Service.ListPersons(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if persons == nil {
		persons = []*models.Person{}
	}
	utils.JSON(w, http.StatusOK, persons)
}

func (h *PersonHandler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeletePerson(r.Context(), mux.Vars(r)["name"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
