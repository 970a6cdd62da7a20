package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	appAccesslog "github.com/orris-inc/permitgate/internal/application/accesslog"
	accessDTO "github.com/orris-inc/permitgate/internal/application/access/dto"
	"github.com/orris-inc/permitgate/internal/application/credential"
	"github.com/orris-inc/permitgate/internal/application/notification"
	"github.com/orris-inc/permitgate/internal/application/permit/dto"
	"github.com/orris-inc/permitgate/internal/domain/accesslog"
	"github.com/orris-inc/permitgate/internal/domain/badge"
	"github.com/orris-inc/permitgate/internal/domain/directory"
	"github.com/orris-inc/permitgate/internal/domain/permit"
	vo "github.com/orris-inc/permitgate/internal/domain/permit/valueobjects"
	"github.com/orris-inc/permitgate/internal/shared/biztime"
	"github.com/orris-inc/permitgate/internal/shared/config"
	"github.com/orris-inc/permitgate/internal/shared/db"
	"github.com/orris-inc/permitgate/internal/shared/errors"
	"github.com/orris-inc/permitgate/internal/shared/logger"
)

const (
	defaultCheckInLead = time.Hour

	// DeniedMessage is the only message a caller sees for a refused check-in
	// when hardened denials are on.
	DeniedMessage = "check-in denied"
)

// CheckInCommand carries what the gate scanned. Identifier is an access token
// or a permit number. With combined scans enabled, Code may be left empty and
// Identifier hold "<token>#<code>".
type CheckInCommand struct {
	Identifier string
	Code       string
	Location   string
	DeviceID   string
}

type CheckInResult struct {
	Permit  *dto.PermitDTO      `json:"permit"`
	Badge   *accessDTO.BadgeDTO `json:"badge"`
	EventID string              `json:"event_id"`
}

type CheckInUseCase struct {
	permitRepo permit.QueryRepository
	lifecycle  PermitTransitioner
	verifier   CodeVerifier
	badges     BadgeRegistry
	recorder   EventRecorder
	limiter    AttemptLimiter
	directory  directory.Directory
	txMgr      *db.TransactionManager
	publisher  notification.Publisher
	clock      biztime.Clock
	cfg        config.AccessConfig
	combined   bool
	logger     logger.Interface
}

func NewCheckInUseCase(
	permitRepo permit.QueryRepository,
	lifecycle PermitTransitioner,
	verifier CodeVerifier,
	badges BadgeRegistry,
	recorder EventRecorder,
	limiter AttemptLimiter,
	directory directory.Directory,
	txMgr *db.TransactionManager,
	publisher notification.Publisher,
	clock biztime.Clock,
	accessCfg config.AccessConfig,
	credentialCfg config.CredentialConfig,
	logger logger.Interface,
) *CheckInUseCase {
	if limiter == nil {
		limiter = noopLimiter{}
	}
	if accessCfg.CheckInLead <= 0 {
		accessCfg.CheckInLead = defaultCheckInLead
	}
	return &CheckInUseCase{
		permitRepo: permitRepo,
		lifecycle:  lifecycle,
		verifier:   verifier,
		badges:     badges,
		recorder:   recorder,
		limiter:    limiter,
		directory:  directory,
		txMgr:      txMgr,
		publisher:  publisher,
		clock:      clock,
		cfg:        accessCfg,
		combined:   credentialCfg.AllowCombinedScan,
		logger:     logger,
	}
}

// Execute admits a visitor at the gate. Preconditions are checked in a fixed
// order and the first failure is the one reported. Every call, admitted or
// not, leaves exactly one access event.
func (uc *CheckInUseCase) Execute(ctx context.Context, cmd CheckInCommand) (*CheckInResult, error) {
	identifier, code := uc.splitScan(cmd)
	uc.logger.Infow("executing check-in use case", "location", cmd.Location, "device_id", cmd.DeviceID)

	p, err := uc.resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, uc.deny(ctx, nil, cmd, accesslog.OutcomeFailed, errors.ErrorTypeNotFound, "permit not found")
	}

	switch p.Status() {
	case vo.StatusApproved:
	case vo.StatusActive, vo.StatusCompleted:
		return nil, uc.deny(ctx, p, cmd, accesslog.OutcomeFailed, errors.ErrorTypeAlreadyProcessed, "permit already checked in")
	default:
		return nil, uc.deny(ctx, p, cmd, accesslog.OutcomeFailed, errors.ErrorTypeInvalidState, "permit is "+p.Status().String())
	}

	now := uc.clock.Now()
	if p.IsPastScheduledEnd(now) {
		return nil, uc.expire(ctx, p, cmd)
	}

	key := limiterKey(p.ID())
	locked, err := uc.limiter.IsLocked(ctx, key)
	if err != nil {
		uc.logger.Warnw("attempt limiter unavailable", "permit_id", p.ID(), "error", err)
	}
	if locked {
		return nil, uc.deny(ctx, p, cmd, accesslog.OutcomeUnauthorized, errors.ErrorTypeInvalidCredential, "too many failed attempts")
	}

	if !uc.verifier.Verify(p, code) {
		failures, err := uc.limiter.RecordFailure(ctx, key)
		if err != nil {
			uc.logger.Warnw("failed to count check-in failure", "permit_id", p.ID(), "error", err)
		}
		uc.logger.Warnw("check-in code rejected", "permit_id", p.ID(), "failures", failures)
		return nil, uc.deny(ctx, p, cmd, accesslog.OutcomeFailed, errors.ErrorTypeInvalidCredential, "invalid or expired access code")
	}

	if p.ActualCheckIn() != nil {
		return nil, uc.deny(ctx, p, cmd, accesslog.OutcomeFailed, errors.ErrorTypeAlreadyProcessed, "permit already checked in")
	}

	if opens := p.CheckInOpensAt(uc.cfg.CheckInLead); now.Before(opens) {
		return nil, uc.deny(ctx, p, cmd, accesslog.OutcomeFailed, errors.ErrorTypeTooEarly,
			"check-in opens at "+biztime.FormatInBizTimezone(opens, "2006-01-02 15:04"))
	}

	var (
		b     *badge.TemporaryBadge
		event *accesslog.Event
	)
	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.lifecycle.Transition(txCtx, p, vo.StatusActive, p.VisitorID(), ""); err != nil {
			return err
		}
		var err error
		if b, err = uc.badges.Issue(txCtx, p); err != nil {
			return err
		}
		event, err = uc.recorder.Record(txCtx, appAccesslog.Entry{
			PermitID: appAccesslog.Ref(p.ID()),
			PersonID: appAccesslog.Ref(p.VisitorID()),
			Type:     accesslog.EventCheckIn,
			Location: uc.location(p, cmd),
			Outcome:  accesslog.OutcomeSuccess,
			Remarks:  "check-in successful, badge " + b.CardNumber(),
			DeviceID: cmd.DeviceID,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, errors.ErrorTypeAlreadyProcessed) {
			return nil, uc.deny(ctx, p, cmd, accesslog.OutcomeFailed, errors.ErrorTypeAlreadyProcessed, "permit claimed by a concurrent check-in")
		}
		uc.logger.Errorw("check-in failed", "permit_id", p.ID(), "error", err)
		return nil, uc.deny(ctx, p, cmd, accesslog.OutcomeFailed, errors.ErrorTypeInternal, "check-in failed")
	}

	if err := uc.limiter.Reset(ctx, key); err != nil {
		uc.logger.Warnw("failed to reset attempt counter", "permit_id", p.ID(), "error", err)
	}

	uc.logger.Infow("visitor checked in", "permit_id", p.ID(), "number", p.Number(), "badge", b.CardNumber())
	if pic, err := uc.directory.GetPerson(ctx, p.PicID()); err != nil || pic == nil {
		uc.logger.Warnw("PIC not found for check-in notification", "permit_id", p.ID(), "pic_id", p.PicID(), "error", err)
	} else {
		uc.publisher.Publish(ctx, notification.CheckedIn(p, pic, b.CardNumber()))
	}

	return &CheckInResult{
		Permit:  dto.ToPermitDTO(p, false),
		Badge:   accessDTO.ToBadgeDTO(b),
		EventID: event.ID(),
	}, nil
}

func (uc *CheckInUseCase) splitScan(cmd CheckInCommand) (string, string) {
	identifier := strings.TrimSpace(cmd.Identifier)
	code := strings.TrimSpace(cmd.Code)
	if uc.combined && code == "" {
		if token, scanned, ok := credential.SplitCombinedScan(identifier); ok {
			return token, scanned
		}
	}
	return identifier, code
}

func (uc *CheckInUseCase) resolve(ctx context.Context, identifier string) (*permit.Permit, error) {
	var (
		p   *permit.Permit
		err error
	)
	switch {
	case permit.IsPermitNumber(identifier):
		p, err = uc.permitRepo.GetByNumber(ctx, identifier)
	case credential.IsToken(identifier):
		p, err = uc.permitRepo.GetByAccessToken(ctx, identifier)
	default:
		return nil, nil
	}
	if err != nil {
		uc.logger.Errorw("failed to resolve permit at check-in", "error", err)
		return nil, errors.NewInternalError("failed to resolve permit")
	}
	return p, nil
}

// expire closes an approved permit whose visit window has passed and records
// the refused check-in with it.
func (uc *CheckInUseCase) expire(ctx context.Context, p *permit.Permit, cmd CheckInCommand) error {
	const reason = "visit window closed before check-in"
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.lifecycle.Transition(txCtx, p, vo.StatusExpired, 0, reason); err != nil {
			return err
		}
		_, err := uc.recorder.Record(txCtx, uc.deniedEntry(p, cmd, accesslog.OutcomeFailed, "permit expired"))
		return err
	})
	if err != nil {
		uc.logger.Warnw("failed to expire permit at check-in", "permit_id", p.ID(), "error", err)
		return uc.deny(ctx, p, cmd, accesslog.OutcomeFailed, errors.ErrorTypeInvalidState, "permit expired")
	}
	uc.logger.Warnw("check-in denied", "permit_id", p.ID(), "reason", "permit expired")
	return uc.denial(errors.ErrorTypeInvalidState, "permit expired")
}

// deny records the refusal and returns the error the caller sees.
func (uc *CheckInUseCase) deny(ctx context.Context, p *permit.Permit, cmd CheckInCommand, outcome accesslog.Outcome, kind errors.ErrorType, reason string) error {
	if _, err := uc.recorder.Record(ctx, uc.deniedEntry(p, cmd, outcome, reason)); err != nil {
		uc.logger.Errorw("failed to record denied check-in", "reason", reason, "error", err)
		return errors.NewInternalError("failed to record access event")
	}

	fields := []interface{}{"reason", reason, "location", cmd.Location, "device_id", cmd.DeviceID}
	if p != nil {
		fields = append(fields, "permit_id", p.ID())
	}
	uc.logger.Warnw("check-in denied", fields...)
	return uc.denial(kind, reason)
}

func (uc *CheckInUseCase) deniedEntry(p *permit.Permit, cmd CheckInCommand, outcome accesslog.Outcome, reason string) appAccesslog.Entry {
	entry := appAccesslog.Entry{
		Type:     accesslog.EventDenied,
		Location: uc.location(p, cmd),
		Outcome:  outcome,
		Remarks:  reason,
		DeviceID: cmd.DeviceID,
	}
	if p != nil {
		entry.PermitID = appAccesslog.Ref(p.ID())
		entry.PersonID = appAccesslog.Ref(p.VisitorID())
	}
	return entry
}

func (uc *CheckInUseCase) denial(kind errors.ErrorType, reason string) error {
	if kind == errors.ErrorTypeInternal {
		return errors.NewInternalError("check-in failed")
	}
	if uc.cfg.HardenedDenials {
		reason = DeniedMessage
	}
	return newTypedError(kind, reason)
}

func (uc *CheckInUseCase) location(p *permit.Permit, cmd CheckInCommand) string {
	if loc := strings.TrimSpace(cmd.Location); loc != "" {
		return loc
	}
	if p != nil {
		return p.Location()
	}
	return "gate"
}

func limiterKey(permitID uint) string {
	return fmt.Sprintf("permit:%d", permitID)
}

func newTypedError(kind errors.ErrorType, message string) error {
	switch kind {
	case errors.ErrorTypeNotFound:
		return errors.NewNotFoundError(message)
	case errors.ErrorTypeInvalidState:
		return errors.NewInvalidStateError(message)
	case errors.ErrorTypeInvalidCredential:
		return errors.NewInvalidCredentialError(message)
	case errors.ErrorTypeUnauthorized:
		return errors.NewUnauthorizedError(message)
	case errors.ErrorTypeTooEarly:
		return errors.NewTooEarlyError(message)
	case errors.ErrorTypeAlreadyProcessed:
		return errors.NewAlreadyProcessedError(message)
	case errors.ErrorTypeValidation:
		return errors.NewValidationError(message)
	default:
		return errors.NewInternalError(message)
	}
}
