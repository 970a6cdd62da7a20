package http

import (
	"fmt"

	accessUsecases "github.com/orris-inc/permitgate/internal/application/access/usecases"
	appAccesslog "github.com/orris-inc/permitgate/internal/application/accesslog"
	"github.com/orris-inc/permitgate/internal/application/approval/assignment"
	approvalUsecases "github.com/orris-inc/permitgate/internal/application/approval/usecases"
	appBadge "github.com/orris-inc/permitgate/internal/application/badge"
	"github.com/orris-inc/permitgate/internal/application/credential"
	appNotification "github.com/orris-inc/permitgate/internal/application/notification"
	appPermit "github.com/orris-inc/permitgate/internal/application/permit"
	permitUsecases "github.com/orris-inc/permitgate/internal/application/permit/usecases"
	"github.com/orris-inc/permitgate/internal/domain/permit"
	"github.com/orris-inc/permitgate/internal/infrastructure/cache"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	// Permit
	submitPermitUC   *approvalUsecases.SubmitPermitUseCase
	getPermitUC      *permitUsecases.GetPermitUseCase
	listPermitsUC    *permitUsecases.ListPermitsUseCase
	cancelPermitUC   *approvalUsecases.CancelPermitUseCase
	regenerateCodeUC *permitUsecases.RegenerateCodeUseCase

	// Approval
	picReviewUC       *approvalUsecases.PicReviewUseCase
	managerApprovalUC *approvalUsecases.ManagerApprovalUseCase
	listApprovalsUC   *approvalUsecases.ListApprovalsUseCase

	// Access
	checkInUC      *accessUsecases.CheckInUseCase
	checkOutUC     *accessUsecases.CheckOutUseCase
	doorAccessUC   *accessUsecases.DoorAccessUseCase
	reissueBadgeUC *accessUsecases.ReissueBadgeUseCase

	// Queries
	auditService *appAccesslog.Service
	inboxService *appNotification.InboxService
}

func (c *Container) initUseCases() error {
	cfg := c.cfg
	log := c.log
	repos := c.repos

	lifecycle := appPermit.NewLifecycle(repos.permitRepo, c.clock, c.metrics, log.Named("lifecycle"))
	issuer := credential.NewIssuer(cfg.Credential, c.clock)
	recorder := appAccesslog.NewRecorder(repos.eventRepo, c.clock, c.metrics, log.Named("accesslog"))
	registry := appBadge.NewRegistry(repos.badgeRepo, repos.permitRepo, c.txMgr, c.clock, log.Named("badge"))

	policy, err := assignment.New(cfg.Approval, c.directory, repos.approvalRepo)
	if err != nil {
		return fmt.Errorf("failed to build manager assignment policy: %w", err)
	}

	var limiter accessUsecases.AttemptLimiter
	if c.redis != nil {
		limiter = cache.NewCheckInAttemptLimiter(c.redis, cfg.Access.MaxFailedAttempts, cfg.Access.LockoutWindow)
	}

	c.ucs = &allUseCases{
		submitPermitUC: approvalUsecases.NewSubmitPermitUseCase(
			repos.permitRepo, repos.approvalRepo, permit.NewRandomNumberGenerator(),
			c.directory, c.txMgr, c.dispatcher, c.clock, log,
		),
		getPermitUC:   permitUsecases.NewGetPermitUseCase(repos.permitRepo, log),
		listPermitsUC: permitUsecases.NewListPermitsUseCase(repos.permitRepo, log),
		cancelPermitUC: approvalUsecases.NewCancelPermitUseCase(
			repos.permitRepo, repos.approvalRepo, lifecycle,
			c.directory, c.txMgr, c.dispatcher, c.clock, log,
		),
		regenerateCodeUC: permitUsecases.NewRegenerateCodeUseCase(
			repos.permitRepo, lifecycle, issuer, c.directory, c.dispatcher, log,
		),

		picReviewUC: approvalUsecases.NewPicReviewUseCase(
			repos.permitRepo, repos.approvalRepo, lifecycle, policy,
			c.directory, c.txMgr, c.dispatcher, c.clock, log,
		),
		managerApprovalUC: approvalUsecases.NewManagerApprovalUseCase(
			repos.permitRepo, repos.approvalRepo, lifecycle, issuer,
			c.directory, c.txMgr, c.dispatcher, c.clock, log,
		),
		listApprovalsUC: approvalUsecases.NewListApprovalsUseCase(repos.approvalRepo, repos.permitRepo, log),

		checkInUC: accessUsecases.NewCheckInUseCase(
			repos.permitRepo, lifecycle, issuer, registry, recorder, limiter,
			c.directory, c.txMgr, c.dispatcher, c.clock, cfg.Access, cfg.Credential, log,
		),
		checkOutUC: accessUsecases.NewCheckOutUseCase(
			repos.permitRepo, lifecycle, registry, recorder, c.directory, c.txMgr, c.dispatcher, log,
		),
		doorAccessUC:   accessUsecases.NewDoorAccessUseCase(repos.permitRepo, registry, recorder, c.txMgr, log),
		reissueBadgeUC: accessUsecases.NewReissueBadgeUseCase(registry, c.directory, c.dispatcher, log),

		auditService: appAccesslog.NewService(repos.eventRepo, repos.permitRepo, log),
		inboxService: appNotification.NewInboxService(repos.inboxRepo, c.clock, log),
	}
	return nil
}
