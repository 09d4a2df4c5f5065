package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/server/http/dto"
	"github.com/polkiloo/marketplace/internal/usecase"
)

// PaymentHandler exposes payment attempts and the concurrent harness.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// Pay handles POST /api/payments/pay. A failed attempt is reported with
// success=false and status 200; only a malformed request is rejected.
func (h *PaymentHandler) Pay(c *gin.Context) {
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, domainErrors.ErrInvalidInput)
		return
	}
	orderID, err := usecase.ParseID(req.OrderID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	strategy, err := parseMode(req.Mode)
	if err != nil {
		abortWithError(c, err)
		return
	}

	change, err := h.facade.AttemptPayment(c.Request.Context(), orderID, strategy)
	if err != nil {
		c.JSON(http.StatusOK, dto.PaymentResponse{
			Success: false,
			Message: err.Error(),
			OrderID: orderID.String(),
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.PaymentResponse{
		Success: true,
		Message: fmt.Sprintf("Order paid successfully using %s mode", strategy),
		OrderID: orderID.String(),
		Status:  string(change.Status),
	})
}

// History handles GET /api/payments/history/:order_id.
func (h *PaymentHandler) History(c *gin.Context) {
	orderID, ok := pathID(c, "order_id")
	if !ok {
		return
	}

	payments, err := h.facade.PaymentHistory(c.Request.Context(), orderID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PaymentHistoryResponse{
		OrderID:      orderID.String(),
		PaymentCount: len(payments),
		Payments:     toHistoryResponse(payments),
	})
}

// TestConcurrent handles POST /api/payments/test-concurrent.
func (h *PaymentHandler) TestConcurrent(c *gin.Context) {
	var req dto.ConcurrentTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, domainErrors.ErrInvalidInput)
		return
	}
	orderID, err := usecase.ParseID(req.OrderID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	strategy, err := parseMode(req.Mode)
	if err != nil {
		abortWithError(c, err)
		return
	}

	report, err := h.facade.RunConcurrentTest(c.Request.Context(), orderID, strategy, req.Attempts)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toConcurrentTestResponse(report))
}

func toConcurrentTestResponse(r *model.ConcurrencyReport) dto.ConcurrentTestResponse {
	results := make([]dto.AttemptResponse, 0, len(r.Attempts))
	for _, a := range r.Attempts {
		results = append(results, dto.AttemptResponse{Attempt: a.Number, Success: a.Success, Error: a.Error})
	}

	return dto.ConcurrentTestResponse{
		Mode:    string(r.Strategy),
		OrderID: r.OrderID.String(),
		Results: results,
		Summary: dto.SummaryResponse{
			TotalAttempts:         r.Summary.TotalAttempts,
			Successful:            r.Summary.Successful,
			Failed:                r.Summary.Failed,
			PaymentCountInHistory: r.Summary.PaymentCountInHistory,
			RaceConditionDetected: r.Summary.RaceConditionDetected,
		},
		FinalStatus: string(r.FinalStatus),
		History:     toHistoryResponse(r.History),
		Explanation: r.Explanation,
	}
}
