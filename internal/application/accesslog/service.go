package accesslog

import (
	"context"
	"time"

	"github.com/orris-inc/permitgate/internal/domain/accesslog"
	"github.com/orris-inc/permitgate/internal/domain/permit"
	vo "github.com/orris-inc/permitgate/internal/domain/permit/valueobjects"
	"github.com/orris-inc/permitgate/internal/shared/biztime"
	"github.com/orris-inc/permitgate/internal/shared/errors"
	"github.com/orris-inc/permitgate/internal/shared/logger"
	"github.com/orris-inc/permitgate/internal/shared/utils"
)

// DailySummary counts one business-timezone day of gate activity.
type DailySummary struct {
	Date      string `json:"date"`
	CheckIns  int64  `json:"check_ins"`
	CheckOuts int64  `json:"check_outs"`
	Denied    int64  `json:"denied"`
	OnSite    int64  `json:"on_site"`
}

// OnSiteVisitor is a permit currently checked in.
type OnSiteVisitor struct {
	PermitID     uint      `json:"permit_id"`
	PermitNumber string    `json:"permit_number"`
	VisitorID    uint      `json:"visitor_id"`
	PicID        uint      `json:"pic_id"`
	Location     string    `json:"location"`
	CheckedInAt  time.Time `json:"checked_in_at"`
	ScheduledEnd time.Time `json:"scheduled_end"`
}

type Service struct {
	events  accesslog.Repository
	permits permit.QueryRepository
	logger  logger.Interface
}

func NewService(events accesslog.Repository, permits permit.QueryRepository, logger logger.Interface) *Service {
	return &Service{
		events:  events,
		permits: permits,
		logger:  logger,
	}
}

// ListEvents returns events matching filter, newest first.
func (s *Service) ListEvents(ctx context.Context, filter accesslog.EventFilter) ([]*accesslog.Event, int64, error) {
	if filter.Type != nil && !filter.Type.IsValid() {
		return nil, 0, errors.NewValidationError("invalid event type")
	}
	if filter.Outcome != nil && !filter.Outcome.IsValid() {
		return nil, 0, errors.NewValidationError("invalid outcome")
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, 0, errors.NewValidationError("time range end is before its start")
	}
	p := utils.ValidatePagination(filter.Page, filter.PageSize)
	filter.Page, filter.PageSize = p.Page, p.PageSize

	events, total, err := s.events.List(ctx, filter)
	if err != nil {
		s.logger.Errorw("failed to list access events", "error", err)
		return nil, 0, errors.NewInternalError("failed to list access events")
	}
	return events, total, nil
}

// ListByPermit returns the full trail of one permit.
func (s *Service) ListByPermit(ctx context.Context, permitID uint) ([]*accesslog.Event, error) {
	events, _, err := s.events.List(ctx, accesslog.EventFilter{PermitID: &permitID})
	if err != nil {
		s.logger.Errorw("failed to list permit events", "permit_id", permitID, "error", err)
		return nil, errors.NewInternalError("failed to list access events")
	}
	return events, nil
}

// DailySummary counts the check-ins, check-outs and denials of date
// (YYYY-MM-DD in the business timezone).
func (s *Service) DailySummary(ctx context.Context, date string) (*DailySummary, error) {
	from, err := biztime.ParseDateInBizTimezone(date)
	if err != nil {
		return nil, errors.NewValidationError("invalid date, expected YYYY-MM-DD")
	}
	to := from.AddDate(0, 0, 1).Add(-time.Millisecond)

	success := accesslog.OutcomeSuccess
	summary := &DailySummary{Date: date}

	if summary.CheckIns, err = s.events.CountByTypeAndOutcome(ctx, accesslog.EventCheckIn, &success, from, to); err != nil {
		return nil, s.countFailed(err)
	}
	if summary.CheckOuts, err = s.events.CountByTypeAndOutcome(ctx, accesslog.EventCheckOut, &success, from, to); err != nil {
		return nil, s.countFailed(err)
	}
	if summary.Denied, err = s.events.CountByTypeAndOutcome(ctx, accesslog.EventDenied, nil, from, to); err != nil {
		return nil, s.countFailed(err)
	}
	if summary.OnSite, err = s.permits.CountByStatus(ctx, vo.StatusActive); err != nil {
		return nil, s.countFailed(err)
	}
	return summary, nil
}

// CurrentlyCheckedIn lists ACTIVE permits, optionally restricted to a location.
func (s *Service) CurrentlyCheckedIn(ctx context.Context, location string) ([]*OnSiteVisitor, error) {
	active := vo.StatusActive
	permits, _, err := s.permits.List(ctx, permit.PermitFilter{
		Status:    &active,
		Location:  location,
		SortBy:    "actual_check_in",
		SortOrder: "asc",
	})
	if err != nil {
		s.logger.Errorw("failed to list active permits", "error", err)
		return nil, errors.NewInternalError("failed to list checked-in visitors")
	}

	out := make([]*OnSiteVisitor, 0, len(permits))
	for _, p := range permits {
		v := &OnSiteVisitor{
			PermitID:     p.ID(),
			PermitNumber: p.Number(),
			VisitorID:    p.VisitorID(),
			PicID:        p.PicID(),
			Location:     p.Location(),
			ScheduledEnd: p.ScheduledEnd(),
		}
		if p.ActualCheckIn() != nil {
			v.CheckedInAt = *p.ActualCheckIn()
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Service) countFailed(err error) error {
	s.logger.Errorw("failed to count access events", "error", err)
	return errors.NewInternalError("failed to build daily summary")
}
