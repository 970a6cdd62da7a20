package dto

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/permitgate/internal/domain/accesslog"
	"github.com/orris-inc/permitgate/internal/shared/constants"
	"github.com/orris-inc/permitgate/internal/shared/errors"
	"github.com/orris-inc/permitgate/internal/shared/utils"
)

type CheckInRequest struct {
	Identifier string `json:"identifier" binding:"required,max=128"`
	Code       string `json:"code" binding:"max=16"`
	Location   string `json:"location" binding:"max=100"`
	DeviceID   string `json:"device_id" binding:"max=64"`
}

type CheckOutRequest struct {
	PermitID uint   `json:"permit_id" binding:"required"`
	Location string `json:"location" binding:"max=100"`
	DeviceID string `json:"device_id" binding:"max=64"`
}

type DoorAccessRequest struct {
	RFIDTag   string `json:"rfid_tag" binding:"required,max=64"`
	Location  string `json:"location" binding:"max=100"`
	Direction string `json:"direction" binding:"max=16"`
	DeviceID  string `json:"device_id" binding:"max=64"`
}

type ReissueBadgeRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

type ListAccessEventsRequest struct {
	PermitID uint      `json:"permit_id"`
	Location string    `json:"location" validate:"max=100"`
	Type     string    `json:"type" validate:"omitempty,oneof=CHECK_IN ENTRY EXIT CHECK_OUT DENIED"`
	Outcome  string    `json:"outcome" validate:"omitempty,oneof=SUCCESS FAILED UNAUTHORIZED"`
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	Page     int       `json:"page" validate:"min=1"`
	PageSize int       `json:"page_size" validate:"min=1,max=100"`
}

// ToFilter converts the request into the audit log filter.
func (r *ListAccessEventsRequest) ToFilter() accesslog.EventFilter {
	filter := accesslog.EventFilter{
		Location: r.Location,
		From:     r.From,
		To:       r.To,
		Page:     r.Page,
		PageSize: r.PageSize,
	}
	if r.PermitID != 0 {
		filter.PermitID = &r.PermitID
	}
	if r.Type != "" {
		t := accesslog.EventType(r.Type)
		filter.Type = &t
	}
	if r.Outcome != "" {
		o := accesslog.Outcome(r.Outcome)
		filter.Outcome = &o
	}
	return filter
}

func ParseListAccessEventsRequest(c *gin.Context) (*ListAccessEventsRequest, error) {
	req := &ListAccessEventsRequest{
		Page:     constants.DefaultPage,
		PageSize: constants.DefaultPageSize,
		Location: c.Query("location"),
		Type:     strings.ToUpper(c.Query("type")),
		Outcome:  strings.ToUpper(c.Query("outcome")),
	}

	if pageStr := c.Query("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return nil, errors.NewValidationError("Invalid page parameter")
		}
		req.Page = page
	}

	if pageSizeStr := c.Query("page_size"); pageSizeStr != "" {
		pageSize, err := strconv.Atoi(pageSizeStr)
		if err != nil || pageSize < 1 {
			return nil, errors.NewValidationError("Invalid page_size parameter")
		}
		if pageSize > constants.MaxPageSize {
			pageSize = constants.MaxPageSize
		}
		req.PageSize = pageSize
	}

	if permitIDStr := c.Query("permit_id"); permitIDStr != "" {
		permitID, err := strconv.ParseUint(permitIDStr, 10, 64)
		if err != nil || permitID == 0 {
			return nil, errors.NewValidationError("Invalid permit_id parameter")
		}
		req.PermitID = uint(permitID)
	}

	var err error
	if req.From, err = parseRFC3339(c.Query("from"), "from"); err != nil {
		return nil, err
	}
	if req.To, err = parseRFC3339(c.Query("to"), "to"); err != nil {
		return nil, err
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	return req, nil
}

func parseRFC3339(raw, key string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errors.NewValidationError("Invalid " + key + " parameter, expected RFC3339")
	}
	return t.UTC(), nil
}
