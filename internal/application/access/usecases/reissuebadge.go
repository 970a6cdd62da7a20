package usecases

import (
	"context"
	"strings"

	accessDTO "github.com/orris-inc/permitgate/internal/application/access/dto"
	"github.com/orris-inc/permitgate/internal/application/notification"
	"github.com/orris-inc/permitgate/internal/domain/badge"
	"github.com/orris-inc/permitgate/internal/domain/directory"
	"github.com/orris-inc/permitgate/internal/domain/permit"
	"github.com/orris-inc/permitgate/internal/shared/errors"
	"github.com/orris-inc/permitgate/internal/shared/logger"
)

const maxReissueReasonLength = 255

type ReissueBadgeCommand struct {
	BadgeID uint
	ActorID uint
	Reason  string
}

type BadgeReissuer interface {
	Reissue(ctx context.Context, badgeID uint, reason string) (*badge.TemporaryBadge, *permit.Permit, error)
}

type ReissueBadgeUseCase struct {
	badges    BadgeReissuer
	directory directory.Directory
	publisher notification.Publisher
	logger    logger.Interface
}

func NewReissueBadgeUseCase(
	badges BadgeReissuer,
	directory directory.Directory,
	publisher notification.Publisher,
	logger logger.Interface,
) *ReissueBadgeUseCase {
	return &ReissueBadgeUseCase{
		badges:    badges,
		directory: directory,
		publisher: publisher,
		logger:    logger,
	}
}

func (uc *ReissueBadgeUseCase) Execute(ctx context.Context, cmd ReissueBadgeCommand) (*accessDTO.BadgeDTO, error) {
	uc.logger.Infow("executing reissue badge use case", "badge_id", cmd.BadgeID, "actor_id", cmd.ActorID)

	reason := strings.TrimSpace(cmd.Reason)
	if reason == "" {
		return nil, errors.NewValidationError("a reason is required to reissue a badge")
	}
	if len(reason) > maxReissueReasonLength {
		return nil, errors.NewValidationError("reason is too long")
	}

	replacement, p, err := uc.badges.Reissue(ctx, cmd.BadgeID, reason)
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to reissue badge", "badge_id", cmd.BadgeID, "error", err)
		return nil, errors.NewInternalError("failed to reissue badge")
	}

	uc.logger.Infow("badge reissued",
		"old_badge_id", cmd.BadgeID,
		"new_badge_id", replacement.ID(),
		"permit_id", p.ID(),
		"reason", reason,
	)

	for _, personID := range []uint{p.PicID(), p.VisitorID()} {
		person, err := uc.directory.GetPerson(ctx, personID)
		if err != nil || person == nil {
			uc.logger.Warnw("recipient not found for badge notification", "permit_id", p.ID(), "person_id", personID, "error", err)
			continue
		}
		uc.publisher.Publish(ctx, notification.BadgeReissued(p, person, replacement.CardNumber()))
	}

	return accessDTO.ToBadgeDTO(replacement), nil
}
