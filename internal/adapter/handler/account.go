package handler

import (
	"net/http"

	"wallet-bridge/internal/usecase"
	"wallet-bridge/middleware"

	"github.com/labstack/echo/v4"
)

// AccountHandler handles account lifecycle requests.
type AccountHandler struct {
	deletion *usecase.RequestDeletion
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(deletion *usecase.RequestDeletion) *AccountHandler {
	return &AccountHandler{deletion: deletion}
}

// deletionResponse reports the deletion workflow state.
type deletionResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HandleDelete processes POST /auth/delete-request.
func (h *AccountHandler) HandleDelete(c echo.Context) error {
	subject, ok := middleware.SubjectFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	result, err := h.deletion.Execute(c.Request().Context(), subject)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusAccepted, deletionResponse{
		Status:  result.Status,
		Message: result.Message,
	})
}
