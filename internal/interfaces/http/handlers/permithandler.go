package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	approvalUsecases "github.com/orris-inc/permitgate/internal/application/approval/usecases"
	permitUsecases "github.com/orris-inc/permitgate/internal/application/permit/usecases"
	"github.com/orris-inc/permitgate/internal/domain/directory"
	"github.com/orris-inc/permitgate/internal/interfaces/dto"
	"github.com/orris-inc/permitgate/internal/shared/errors"
	"github.com/orris-inc/permitgate/internal/shared/logger"
	"github.com/orris-inc/permitgate/internal/shared/utils"
)

type PermitHandler struct {
	submitUC     submitPermitUseCase
	getUC        getPermitUseCase
	listUC       listPermitsUseCase
	cancelUC     cancelPermitUseCase
	regenerateUC regenerateCodeUseCase
	logger       logger.Interface
}

func NewPermitHandler(
	submitUC submitPermitUseCase,
	getUC getPermitUseCase,
	listUC listPermitsUseCase,
	cancelUC cancelPermitUseCase,
	regenerateUC regenerateCodeUseCase,
	logger logger.Interface,
) *PermitHandler {
	return &PermitHandler{
		submitUC:     submitUC,
		getUC:        getUC,
		listUC:       listUC,
		cancelUC:     cancelUC,
		regenerateUC: regenerateUC,
		logger:       logger,
	}
}

// Submit handles POST /permits. The actor is the visitor.
func (h *PermitHandler) Submit(c *gin.Context) {
	var req dto.SubmitPermitRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.submitUC.Execute(c.Request.Context(), approvalUsecases.SubmitPermitCommand{
		VisitorID:      actorID(c),
		PicID:          req.PicID,
		Purpose:        req.Purpose,
		VisitType:      req.VisitType,
		Location:       req.Location,
		ScheduledStart: req.ScheduledStart,
		ScheduledEnd:   req.ScheduledEnd,
		Equipment:      req.Equipment,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Permit submitted successfully")
}

func (h *PermitHandler) Get(c *gin.Context) {
	permitID, err := utils.ParseUintParam(c, "id", "permit")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getUC.Execute(c.Request.Context(), permitUsecases.GetPermitQuery{PermitID: permitID, ActorID: actorID(c)})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if !h.canView(c, result.VisitorID, result.PicID) {
		utils.ErrorResponseWithError(c, errors.NewNotFoundError("permit not found"))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *PermitHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	result, err := h.getUC.Execute(c.Request.Context(), permitUsecases.GetPermitQuery{Number: number, ActorID: actorID(c)})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if !h.canView(c, result.VisitorID, result.PicID) {
		utils.ErrorResponseWithError(c, errors.NewNotFoundError("permit not found"))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// List handles GET /permits. Actors without a staff role only see permits they
// are the visitor or PIC of.
func (h *PermitHandler) List(c *gin.Context) {
	visitorID, err := utils.ParseUintQuery(c, "visitor_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	picID, err := utils.ParseUintQuery(c, "pic_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	pagination := utils.ParsePagination(c)

	query := permitUsecases.ListPermitsQuery{
		Status:    c.Query("status"),
		Location:  c.Query("location"),
		Page:      pagination.Page,
		PageSize:  pagination.PageSize,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		ActorID:   actorID(c),
	}
	if visitorID != 0 {
		query.VisitorID = &visitorID
	}
	if picID != 0 {
		query.PicID = &picID
	}

	if !staffActor(c) {
		self := actorID(c)
		if actorHasRole(c, directory.RolePIC) {
			query.VisitorID = nil
			query.PicID = &self
		} else {
			query.PicID = nil
			query.VisitorID = &self
		}
	}

	result, err := h.listUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Permits, result.Total, result.Page, result.PageSize)
}

func (h *PermitHandler) Cancel(c *gin.Context) {
	permitID, err := utils.ParseUintParam(c, "id", "permit")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	var req dto.CancelPermitRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	result, err := h.cancelUC.Execute(c.Request.Context(), approvalUsecases.CancelPermitCommand{
		PermitID: permitID,
		ActorID:  actorID(c),
		Reason:   req.Reason,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Permit cancelled", result)
}

// RegenerateCode handles POST /permits/:id/code. Only the owning visitor gets
// the fresh code back.
func (h *PermitHandler) RegenerateCode(c *gin.Context) {
	permitID, err := utils.ParseUintParam(c, "id", "permit")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.regenerateUC.Execute(c.Request.Context(), permitUsecases.RegenerateCodeCommand{
		PermitID: permitID,
		ActorID:  actorID(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Access code regenerated", result)
}

func (h *PermitHandler) canView(c *gin.Context, visitorID, picID uint) bool {
	if staffActor(c) {
		return true
	}
	self := actorID(c)
	return self == visitorID || self == picID
}
