package usecases

import (
	"context"
	"strings"

	"github.com/orris-inc/permitgate/internal/application/approval/assignment"
	"github.com/orris-inc/permitgate/internal/application/notification"
	"github.com/orris-inc/permitgate/internal/application/permit/dto"
	"github.com/orris-inc/permitgate/internal/domain/approval"
	"github.com/orris-inc/permitgate/internal/domain/directory"
	domainNotification "github.com/orris-inc/permitgate/internal/domain/notification"
	"github.com/orris-inc/permitgate/internal/domain/permit"
	vo "github.com/orris-inc/permitgate/internal/domain/permit/valueobjects"
	"github.com/orris-inc/permitgate/internal/shared/biztime"
	"github.com/orris-inc/permitgate/internal/shared/db"
	"github.com/orris-inc/permitgate/internal/shared/errors"
	"github.com/orris-inc/permitgate/internal/shared/logger"
)

const maxCommentsLength = 1000

// ReviewCommand is a decision at either approval level.
type ReviewCommand struct {
	PermitID   uint
	ReviewerID uint
	Approved   bool
	Comments   string
}

type ReviewResult struct {
	Permit     *dto.PermitDTO   `json:"permit"`
	Approval   *dto.ApprovalDTO `json:"approval"`
	AssignedTo uint             `json:"assigned_to,omitempty"`
}

func (cmd ReviewCommand) validate() error {
	if cmd.PermitID == 0 {
		return errors.NewValidationError("permit ID is required")
	}
	if cmd.ReviewerID == 0 {
		return errors.NewValidationError("reviewer is required")
	}
	if len(cmd.Comments) > maxCommentsLength {
		return errors.NewValidationError("comments exceed maximum length of 1000 characters")
	}
	return nil
}

// reviewDeps is what both approval levels share.
type reviewDeps struct {
	permitRepo   permit.QueryRepository
	approvalRepo approval.Repository
	lifecycle    PermitTransitioner
	directory    directory.Directory
	txMgr        *db.TransactionManager
	publisher    notification.Publisher
	clock        biztime.Clock
	logger       logger.Interface
}

func (d *reviewDeps) loadPermit(ctx context.Context, permitID uint) (*permit.Permit, error) {
	p, err := d.permitRepo.GetByID(ctx, permitID)
	if err != nil {
		d.logger.Errorw("failed to get permit", "permit_id", permitID, "error", err)
		return nil, errors.NewInternalError("failed to get permit")
	}
	if p == nil {
		return nil, errors.NewNotFoundError("permit not found")
	}
	return p, nil
}

// resolve records the decision on the pending record of level, failing with
// AlreadyProcessed when another decision was stored first.
func (d *reviewDeps) resolve(ctx context.Context, p *permit.Permit, level approval.Level, cmd ReviewCommand) (*approval.Record, error) {
	rec, err := d.approvalRepo.GetByPermitAndLevel(ctx, p.ID(), level)
	if err != nil {
		d.logger.Errorw("failed to get approval", "permit_id", p.ID(), "level", level, "error", err)
		return nil, errors.NewInternalError("failed to get approval")
	}
	if rec == nil {
		d.logger.Errorw("pending permit has no approval record", "permit_id", p.ID(), "level", level)
		return nil, errors.NewInternalError("approval record missing")
	}
	if err := rec.Resolve(cmd.Approved, cmd.ReviewerID, strings.TrimSpace(cmd.Comments), d.clock.Now()); err != nil {
		return nil, errors.NewAlreadyProcessedError("approval was already decided")
	}
	ok, err := d.approvalRepo.Resolve(ctx, rec)
	if err != nil {
		d.logger.Errorw("failed to store approval decision", "approval_id", rec.ID(), "error", err)
		return nil, errors.NewInternalError("failed to store approval")
	}
	if !ok {
		return nil, errors.NewAlreadyProcessedError("approval was already decided")
	}
	return rec, nil
}

func (d *reviewDeps) person(ctx context.Context, personID uint) *directory.Person {
	person, err := d.directory.GetPerson(ctx, personID)
	if err != nil || person == nil {
		d.logger.Warnw("notification recipient not found", "person_id", personID, "error", err)
		return nil
	}
	return person
}

func (d *reviewDeps) publish(ctx context.Context, msg domainNotification.Message) {
	if msg.Recipient.ID == 0 {
		return
	}
	d.publisher.Publish(ctx, msg)
}

type PicReviewUseCase struct {
	reviewDeps
	policy assignment.Policy
}

func NewPicReviewUseCase(
	permitRepo permit.QueryRepository,
	approvalRepo approval.Repository,
	lifecycle PermitTransitioner,
	policy assignment.Policy,
	directory directory.Directory,
	txMgr *db.TransactionManager,
	publisher notification.Publisher,
	clock biztime.Clock,
	logger logger.Interface,
) *PicReviewUseCase {
	return &PicReviewUseCase{
		reviewDeps: reviewDeps{
			permitRepo:   permitRepo,
			approvalRepo: approvalRepo,
			lifecycle:    lifecycle,
			directory:    directory,
			txMgr:        txMgr,
			publisher:    publisher,
			clock:        clock,
			logger:       logger,
		},
		policy: policy,
	}
}

// Execute records the PIC's decision. Approval hands the permit to a manager
// chosen by the assignment policy; rejection ends it.
func (uc *PicReviewUseCase) Execute(ctx context.Context, cmd ReviewCommand) (*ReviewResult, error) {
	uc.logger.Infow("executing PIC review use case", "permit_id", cmd.PermitID, "reviewer_id", cmd.ReviewerID, "approved", cmd.Approved)

	if err := cmd.validate(); err != nil {
		return nil, err
	}
	p, err := uc.loadPermit(ctx, cmd.PermitID)
	if err != nil {
		return nil, err
	}
	if p.PicID() != cmd.ReviewerID {
		uc.logger.Warnw("PIC review by someone other than the assigned PIC", "permit_id", p.ID(), "reviewer_id", cmd.ReviewerID)
		return nil, errors.NewUnauthorizedError("only the assigned PIC can review this permit")
	}
	if p.Status() != vo.StatusPendingPIC {
		return nil, errors.NewInvalidStateError("permit is not waiting for PIC review")
	}

	var (
		rec     *approval.Record
		manager *directory.Person
	)
	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		if rec, err = uc.resolve(txCtx, p, approval.LevelPICReview, cmd); err != nil {
			return err
		}

		if !cmd.Approved {
			return uc.lifecycle.Transition(txCtx, p, vo.StatusRejected, cmd.ReviewerID, cmd.Comments)
		}

		if err := uc.lifecycle.Transition(txCtx, p, vo.StatusPendingManager, cmd.ReviewerID, ""); err != nil {
			return err
		}
		manager, err = uc.policy.Assign(txCtx, p)
		if err != nil {
			uc.logger.Errorw("manager assignment failed", "permit_id", p.ID(), "error", err)
			return errors.NewInternalError("failed to assign a manager")
		}
		if manager == nil {
			uc.logger.Warnw("no manager available", "permit_id", p.ID(), "location", p.Location())
			return errors.NewNotFoundError("no manager available to approve this permit")
		}
		next, err := approval.NewRecord(p.ID(), approval.LevelManagerApproval, manager.ID, uc.clock.Now())
		if err != nil {
			return errors.NewInternalError(err.Error())
		}
		if err := uc.approvalRepo.Create(txCtx, next); err != nil {
			uc.logger.Errorw("failed to create manager approval", "permit_id", p.ID(), "error", err)
			return errors.NewInternalError("failed to create approval")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &ReviewResult{Permit: dto.ToPermitDTO(p, false), Approval: dto.ToApprovalDTO(rec)}
	if cmd.Approved {
		result.AssignedTo = manager.ID
		uc.publish(ctx, notification.ApprovalRequired(p, manager, "manager approval"))
	} else {
		uc.publish(ctx, notification.PermitRejected(p, uc.person(ctx, p.VisitorID()), "PIC review"))
	}

	uc.logger.Infow("PIC review recorded", "permit_id", p.ID(), "approved", cmd.Approved, "status", p.Status())
	return result, nil
}

type ManagerApprovalUseCase struct {
	reviewDeps
	issuer CredentialIssuer
}

func NewManagerApprovalUseCase(
	permitRepo permit.QueryRepository,
	approvalRepo approval.Repository,
	lifecycle PermitTransitioner,
	issuer CredentialIssuer,
	directory directory.Directory,
	txMgr *db.TransactionManager,
	publisher notification.Publisher,
	clock biztime.Clock,
	logger logger.Interface,
) *ManagerApprovalUseCase {
	return &ManagerApprovalUseCase{
		reviewDeps: reviewDeps{
			permitRepo:   permitRepo,
			approvalRepo: approvalRepo,
			lifecycle:    lifecycle,
			directory:    directory,
			txMgr:        txMgr,
			publisher:    publisher,
			clock:        clock,
			logger:       logger,
		},
		issuer: issuer,
	}
}

// Execute records the manager's decision. Approval issues the check-in
// credentials in the same transaction that moves the permit to APPROVED. Any
// manager may decide; the record keeps who actually did.
func (uc *ManagerApprovalUseCase) Execute(ctx context.Context, cmd ReviewCommand) (*ReviewResult, error) {
	uc.logger.Infow("executing manager approval use case", "permit_id", cmd.PermitID, "approver_id", cmd.ReviewerID, "approved", cmd.Approved)

	if err := cmd.validate(); err != nil {
		return nil, err
	}
	p, err := uc.loadPermit(ctx, cmd.PermitID)
	if err != nil {
		return nil, err
	}
	if p.Status() != vo.StatusPendingManager {
		return nil, errors.NewInvalidStateError("permit is not waiting for manager approval")
	}

	approver, err := uc.directory.GetPerson(ctx, cmd.ReviewerID)
	if err != nil {
		uc.logger.Errorw("failed to resolve approver", "approver_id", cmd.ReviewerID, "error", err)
		return nil, errors.NewInternalError("failed to resolve approver")
	}
	if approver == nil || !approver.HasRole(directory.RoleManager) {
		uc.logger.Warnw("manager approval by a non-manager", "permit_id", p.ID(), "approver_id", cmd.ReviewerID)
		return nil, errors.NewUnauthorizedError("only a manager can approve this permit")
	}

	var code, token string
	var rec *approval.Record
	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		if rec, err = uc.resolve(txCtx, p, approval.LevelManagerApproval, cmd); err != nil {
			return err
		}

		if !cmd.Approved {
			return uc.lifecycle.Transition(txCtx, p, vo.StatusRejected, cmd.ReviewerID, cmd.Comments)
		}

		cred, err := uc.issuer.Issue(p)
		if err != nil {
			uc.logger.Errorw("failed to issue credentials", "permit_id", p.ID(), "error", err)
			return errors.NewInternalError("failed to issue credentials")
		}
		code, token = cred.Code, cred.Token
		return uc.lifecycle.Transition(txCtx, p, vo.StatusApproved, cmd.ReviewerID, "")
	})
	if err != nil {
		return nil, err
	}

	visitor := uc.person(ctx, p.VisitorID())
	if cmd.Approved {
		uc.publish(ctx, notification.PermitApproved(p, visitor, code, token, *p.CodeExpiresAt()))
	} else {
		uc.publish(ctx, notification.PermitRejected(p, visitor, "manager approval"))
	}

	uc.logger.Infow("manager decision recorded", "permit_id", p.ID(), "approved", cmd.Approved, "status", p.Status())
	return &ReviewResult{Permit: dto.ToPermitDTO(p, false), Approval: dto.ToApprovalDTO(rec)}, nil
}
