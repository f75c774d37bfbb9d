package handler

import (
	apploan "github.com/crediya/loans/internal/application/loan"
	domainloan "github.com/crediya/loans/internal/domain/loan"
	"github.com/crediya/loans/internal/infrastructure/logger"
	"github.com/crediya/loans/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoanHandler handles the loan application endpoints
type LoanHandler struct {
	BaseHandler
	service  *apploan.LoanService
	notifier domainloan.StatusNotifier
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(service *apploan.LoanService, notifier domainloan.StatusNotifier) *LoanHandler {
	return &LoanHandler{
		service:  service,
		notifier: notifier,
	}
}

// Create files a new loan application for the authenticated applicant.
// The email always comes from the JWT, never from the body, so a client
// cannot apply on someone else's behalf.
func (h *LoanHandler) Create(c *gin.Context) {
	var req apploan.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	email := middleware.GetJWTEmail(c)
	if email == "" {
		h.Unauthorized(c, "Authentication required")
		return
	}
	req.Email = email

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ChangeStatus moves a loan to another state and notifies the applicant.
// The state change is already committed when the notification goes out;
// a delivery failure fails the request but does not undo the save.
func (h *LoanHandler) ChangeStatus(c *gin.Context) {
	var req apploan.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	ctx := c.Request.Context()
	result, err := h.service.ChangeStatus(ctx, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.notifier.Notify(ctx, result.Notification); err != nil {
		logger.L(ctx).Error("failed to notify status change",
			zap.String("loan_id", result.Loan.ID.String()),
			zap.String("state", result.Notification.State),
			zap.Error(err))
		h.InternalError(c, "status updated but notification delivery failed")
		return
	}

	h.Success(c, result.Loan)
}

// List returns every loan application
func (h *LoanHandler) List(c *gin.Context) {
	loans, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, loans)
}

// ManualReview returns the filtered, paginated listing that advisers work
// through, each row enriched with the applicant snapshot.
func (h *LoanHandler) ManualReview(c *gin.Context) {
	var query apploan.ManualReviewQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.service.ManualReview(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Content, page.TotalElements, page.Page, page.Size, page.TotalPages())
}
