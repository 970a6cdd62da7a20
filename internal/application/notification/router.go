package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/orris-inc/permitgate/internal/domain/notification"
)

// Router fans a message out to the transports its channel selects. A nil
// transport is skipped.
type Router struct {
	routes map[notification.Channel]notification.Notifier
}

func NewRouter(email, sms, inApp notification.Notifier) *Router {
	routes := make(map[notification.Channel]notification.Notifier, 3)
	if email != nil {
		routes[notification.ChannelEmail] = email
	}
	if sms != nil {
		routes[notification.ChannelSMS] = sms
	}
	if inApp != nil {
		routes[notification.ChannelInApp] = inApp
	}
	return &Router{routes: routes}
}

func (r *Router) Notify(ctx context.Context, msg notification.Message) error {
	channel := msg.Channel
	if channel == "" {
		channel = notification.ChannelAll
	}

	var errs []error
	for _, target := range []notification.Channel{notification.ChannelInApp, notification.ChannelEmail, notification.ChannelSMS} {
		n, ok := r.routes[target]
		if !ok || !channel.Includes(target) {
			continue
		}
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", target, err))
		}
	}
	return errors.Join(errs...)
}
