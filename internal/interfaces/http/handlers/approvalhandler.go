package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/permitgate/internal/application/approval/usecases"
	"github.com/orris-inc/permitgate/internal/interfaces/dto"
	"github.com/orris-inc/permitgate/internal/shared/logger"
	"github.com/orris-inc/permitgate/internal/shared/utils"
)

type ApprovalHandler struct {
	picReviewUC       reviewUseCase
	managerApprovalUC reviewUseCase
	listUC            listApprovalsUseCase
	logger            logger.Interface
}

func NewApprovalHandler(picReviewUC, managerApprovalUC reviewUseCase, listUC listApprovalsUseCase, logger logger.Interface) *ApprovalHandler {
	return &ApprovalHandler{
		picReviewUC:       picReviewUC,
		managerApprovalUC: managerApprovalUC,
		listUC:            listUC,
		logger:            logger,
	}
}

// PicReview handles POST /permits/:id/pic-review.
func (h *ApprovalHandler) PicReview(c *gin.Context) {
	h.review(c, h.picReviewUC, "PIC review recorded")
}

// ManagerApproval handles POST /permits/:id/manager-approval.
func (h *ApprovalHandler) ManagerApproval(c *gin.Context) {
	h.review(c, h.managerApprovalUC, "Manager decision recorded")
}

func (h *ApprovalHandler) review(c *gin.Context, uc reviewUseCase, message string) {
	permitID, err := utils.ParseUintParam(c, "id", "permit")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	var req dto.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := uc.Execute(c.Request.Context(), usecases.ReviewCommand{
		PermitID:   permitID,
		ReviewerID: actorID(c),
		Approved:   *req.Approved,
		Comments:   req.Comments,
	})
	if err != nil {
		h.logger.Warnw("review rejected", "permit_id", permitID, "reviewer_id", actorID(c), "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, message, result)
}

// ListByPermit handles GET /permits/:id/approvals.
func (h *ApprovalHandler) ListByPermit(c *gin.Context) {
	permitID, err := utils.ParseUintParam(c, "id", "permit")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listUC.Execute(c.Request.Context(), usecases.ListApprovalsQuery{PermitID: permitID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListPending handles GET /approvals/pending for the calling approver.
func (h *ApprovalHandler) ListPending(c *gin.Context) {
	result, err := h.listUC.Execute(c.Request.Context(), usecases.ListApprovalsQuery{ApproverID: actorID(c)})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
