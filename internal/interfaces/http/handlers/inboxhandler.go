package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/permitgate/internal/domain/notification"
	"github.com/orris-inc/permitgate/internal/interfaces/dto"
	"github.com/orris-inc/permitgate/internal/shared/logger"
	"github.com/orris-inc/permitgate/internal/shared/utils"
)

type inboxService interface {
	List(ctx context.Context, recipientID uint, unreadOnly bool, page, pageSize int) ([]*notification.InboxItem, int64, error)
	MarkRead(ctx context.Context, itemID, recipientID uint) error
}

// InboxHandler serves the in-app notification inbox of the calling actor.
type InboxHandler struct {
	service inboxService
	logger  logger.Interface
}

func NewInboxHandler(service inboxService, logger logger.Interface) *InboxHandler {
	return &InboxHandler{service: service, logger: logger}
}

func (h *InboxHandler) List(c *gin.Context) {
	pagination := utils.ParsePagination(c)
	unreadOnly := c.Query("unread_only") == "true"

	items, total, err := h.service.List(c.Request.Context(), actorID(c), unreadOnly, pagination.Page, pagination.PageSize)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, dto.ToInboxItemResponseList(items), total, pagination.Page, pagination.PageSize)
}

func (h *InboxHandler) MarkRead(c *gin.Context) {
	itemID, err := utils.ParseUintParam(c, "id", "notification")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), itemID, actorID(c)); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Notification marked as read", nil)
}
