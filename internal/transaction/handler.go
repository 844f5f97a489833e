package transaction

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/dompet/service/internal/middleware"
	"github.com/dompet/service/internal/response"
)

// Handler holds HTTP handlers for transaction endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new transaction Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type createRequest struct {
	Title  string `json:"title" example:"Groceries"`
	Amount *int64 `json:"amount" example:"-125000"`
}

// List godoc
//
//	@Summary	List transactions
//	@Tags		transactions
//	@Produce	json
//	@Success	200	{array}		Transaction
//	@Failure	401	{object}	map[string]string
//	@Failure	500	{object}	map[string]string
//	@Router		/transactions [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	txs, err := h.svc.List(r.Context(), userID)
	if err != nil {
		log.Printf("transaction: list: %v", err)
		response.InternalError(w)
		return
	}
	if txs == nil {
		txs = []Transaction{}
	}
	response.JSON(w, http.StatusOK, txs)
}

// Create godoc
//
//	@Summary	Record a transaction
//	@Tags		transactions
//	@Accept		json
//	@Produce	json
//	@Param		request	body		createRequest	true	"Title and amount"
//	@Success	201		{object}	Transaction
//	@Failure	400		{object}	map[string]string
//	@Failure	401		{object}	map[string]string
//	@Failure	500		{object}	map[string]string
//	@Router		/transactions [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.Title == "" || req.Amount == nil {
		response.BadRequest(w, "title and amount required")
		return
	}

	tx, err := h.svc.Create(r.Context(), userID, req.Title, *req.Amount)
	if err != nil {
		log.Printf("transaction: create: %v", err)
		response.InternalError(w)
		return
	}

	response.JSON(w, http.StatusCreated, tx)
}

// Delete godoc
//
//	@Summary	Delete a transaction
//	@Tags		transactions
//	@Produce	json
//	@Param		id	query		int	true	"Transaction id"
//	@Success	200	{object}	map[string]string
//	@Failure	400	{object}	map[string]string
//	@Failure	401	{object}	map[string]string
//	@Failure	500	{object}	map[string]string
//	@Router		/transactions [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "valid id required")
		return
	}

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		log.Printf("transaction: delete: %v", err)
		response.InternalError(w)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted"})
}
