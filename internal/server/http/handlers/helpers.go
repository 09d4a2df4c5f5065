package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/server/http/dto"
	"github.com/polkiloo/marketplace/internal/usecase"
)

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrOrderNotPayable), errors.Is(err, domainErrors.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(StatusFor(err), dto.ErrorResponse{Error: err.Error()})
}

// pathID parses the named route parameter, aborting with 400 when malformed.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := usecase.ParseID(c.Param(name))
	if err != nil {
		abortWithError(c, err)
		return uuid.Nil, false
	}
	return id, true
}

// parseMode reads a payment mode, defaulting to the safe strategy.
func parseMode(mode string) (model.PaymentStrategy, error) {
	if mode == "" {
		return model.StrategySafe, nil
	}
	return model.ParseStrategy(mode)
}

func toUserResponse(u model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

func toOrderResponse(o model.Order) dto.OrderResponse {
	items := make([]dto.ItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, dto.ItemResponse{
			ID:          item.ID.String(),
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal(),
		})
	}

	var history []dto.StatusChangeResponse
	if len(o.History) > 0 {
		history = toHistoryResponse(o.History)
	}

	return dto.OrderResponse{
		ID:          o.ID.String(),
		UserID:      o.UserID.String(),
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		Items:       items,
		History:     history,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func toHistoryResponse(history []model.StatusChange) []dto.StatusChangeResponse {
	result := make([]dto.StatusChangeResponse, 0, len(history))
	for _, change := range history {
		result = append(result, dto.StatusChangeResponse{
			ID:        change.ID.String(),
			Status:    string(change.Status),
			ChangedAt: change.ChangedAt,
		})
	}
	return result
}
