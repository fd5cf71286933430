package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"invoice-backend/internal/models"
	"invoice-backend/pkg/utils"
)

type ItemService interface {
	CreateItem(ctx context.Context, req *models.CreateItemRequest) (*models.Item, error)
	GetItem(ctx context.Context, code string) (*models.Item, error)
	UpdateItem(ctx context.Context, code string, req *models.UpdateItemRequest) (*models.Item, error)
	DeleteItem(ctx context.Context, code string) error
	ListItems(ctx context.Context) ([]*models.Item, error)
	ListUnlogged(ctx context.Context) ([]*models.Item, error)
}

type ItemHandler struct {
	Service ItemService
}

func NewItemHandler(s ItemService) *ItemHandler {
	return &ItemHandler{Service: s}
}

func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req models.CreateItemRequest
	if !decode(w, r, &req) {
		return
	}

	item, err := h.Service.CreateItem(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, item)
}

func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.Service.GetItem(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, item)
}

// UpdateItem applies a partial update; omitted fields keep their stored values.
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateItemRequest
	if !decode(w, r, &req) {
		return
	}

	item, err := h.Service.UpdateItem(r.Context(), mux.Vars(r)["code"], &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, item)
}

func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteItem(r.Context(), mux.Vars(r)["code"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	h.writeItems(w, r, h.Service.ListItems)
}

// ListUnlogged returns items not yet billed on any invoice.
func (h *ItemHandler) ListUnlogged(w http.ResponseWriter, r *http.Request) {
	h.writeItems(w, r, h.Service.ListUnlogged)
}

func (h *ItemHandler) writeItems(w http.ResponseWriter, r *http.Request, list func(context.Context) ([]*models.Item, error)) {
	items, err := list(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []*models.Item{}
	}
	utils.JSON(w, http.StatusOK, items)
}
