package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	accessDTO "github.com/orris-inc/permitgate/internal/application/access/dto"
	"github.com/orris-inc/permitgate/internal/application/access/usecases"
	"github.com/orris-inc/permitgate/internal/interfaces/dto"
	"github.com/orris-inc/permitgate/internal/shared/biztime"
	"github.com/orris-inc/permitgate/internal/shared/errors"
	"github.com/orris-inc/permitgate/internal/shared/logger"
	"github.com/orris-inc/permitgate/internal/shared/utils"
)

const accessDeniedType = "access_denied"

type AccessHandler struct {
	checkInUC  checkInUseCase
	checkOutUC checkOutUseCase
	doorUC     doorAccessUseCase
	reissueUC  reissueBadgeUseCase
	audit      auditQueryService
	hardened   bool
	logger     logger.Interface
}

func NewAccessHandler(
	checkInUC checkInUseCase,
	checkOutUC checkOutUseCase,
	doorUC doorAccessUseCase,
	reissueUC reissueBadgeUseCase,
	audit auditQueryService,
	hardened bool,
	logger logger.Interface,
) *AccessHandler {
	return &AccessHandler{
		checkInUC:  checkInUC,
		checkOutUC: checkOutUC,
		doorUC:     doorUC,
		reissueUC:  reissueUC,
		audit:      audit,
		hardened:   hardened,
		logger:     logger,
	}
}

// CheckIn handles POST /access/check-in. With hardened denials every refusal
// answers the same 403 so the gate cannot be used to probe permits.
func (h *AccessHandler) CheckIn(c *gin.Context) {
	var req dto.CheckInRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.checkInUC.Execute(c.Request.Context(), usecases.CheckInCommand{
		Identifier: req.Identifier,
		Code:       req.Code,
		Location:   req.Location,
		DeviceID:   req.DeviceID,
	})
	if err != nil {
		if h.hardened && errors.TypeOf(err) != errors.ErrorTypeInternal {
			utils.ErrorResponse(c, http.StatusForbidden, accessDeniedType, usecases.DeniedMessage)
			return
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Checked in", result)
}

func (h *AccessHandler) CheckOut(c *gin.Context) {
	var req dto.CheckOutRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.checkOutUC.Execute(c.Request.Context(), usecases.CheckOutCommand{
		PermitID: req.PermitID,
		ActorID:  actorID(c),
		Location: req.Location,
		DeviceID: req.DeviceID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Checked out", result)
}

// Door handles POST /access/door. A refused tap is still a 200 with
// granted=false; the reader only needs the decision.
func (h *AccessHandler) Door(c *gin.Context) {
	var req dto.DoorAccessRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.doorUC.Execute(c.Request.Context(), usecases.DoorAccessCommand{
		RFIDTag:   req.RFIDTag,
		Location:  req.Location,
		Direction: req.Direction,
		DeviceID:  req.DeviceID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *AccessHandler) ReissueBadge(c *gin.Context) {
	badgeID, err := utils.ParseUintParam(c, "id", "badge")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	var req dto.ReissueBadgeRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.reissueUC.Execute(c.Request.Context(), usecases.ReissueBadgeCommand{
		BadgeID: badgeID,
		ActorID: actorID(c),
		Reason:  req.Reason,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Badge reissued")
}

// ListEvents handles GET /access/events.
func (h *AccessHandler) ListEvents(c *gin.Context) {
	req, err := dto.ParseListAccessEventsRequest(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	events, total, err := h.audit.ListEvents(c.Request.Context(), req.ToFilter())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, accessDTO.ToEventDTOList(events), total, req.Page, req.PageSize)
}

// DailySummary handles GET /access/summary?date=YYYY-MM-DD, defaulting to
// today in the business timezone.
func (h *AccessHandler) DailySummary(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = biztime.FormatInBizTimezone(biztime.NowUTC(), biztime.DateLayout)
	}

	summary, err := h.audit.DailySummary(c.Request.Context(), date)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", summary)
}

func (h *AccessHandler) CheckedIn(c *gin.Context) {
	visitors, err := h.audit.CurrentlyCheckedIn(c.Request.Context(), c.Query("location"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", visitors)
}
