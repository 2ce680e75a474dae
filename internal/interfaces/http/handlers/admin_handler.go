package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerrors "payportal.backend/internal/domain/errors"
	"payportal.backend/internal/interfaces/http/response"
	"payportal.backend/internal/usecases"
)

// AdminHandler handles staff-only transaction review endpoints
type AdminHandler struct {
	paymentUsecase *usecases.PaymentUsecase
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(paymentUsecase *usecases.PaymentUsecase) *AdminHandler {
	return &AdminHandler{paymentUsecase: paymentUsecase}
}

// ListTransactions lists all transactions enriched with submitter identity.
// GET /api/admin/transactions?status=
func (h *AdminHandler) ListTransactions(c *gin.Context) {
	txs, err := h.paymentUsecase.AdminList(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, txs)
}

// VerifyTransaction finalizes a pending transaction as completed.
// POST /api/admin/transactions/:id/verify
func (h *AdminHandler) VerifyTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("malformed transaction id"))
		return
	}

	tx, err := h.paymentUsecase.Verify(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, tx)
}

// RejectTransaction finalizes a pending transaction as rejected.
// POST /api/admin/transactions/:id/reject
func (h *AdminHandler) RejectTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("malformed transaction id"))
		return
	}

	tx, err := h.paymentUsecase.Reject(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, tx)
}
