// Package notification delivers permit notifications after the state change
// that caused them has committed.
package notification

import (
	"context"
	"sync"
	"time"

	"github.com/orris-inc/permitgate/internal/domain/notification"
	"github.com/orris-inc/permitgate/internal/shared/goroutine"
	"github.com/orris-inc/permitgate/internal/shared/logger"
)

const defaultSendTimeout = 30 * time.Second

// Publisher hands messages off for asynchronous delivery.
type Publisher interface {
	Publish(ctx context.Context, msgs ...notification.Message)
}

// DeliveryObserver is told how each delivery ended.
type DeliveryObserver interface {
	ObserveNotification(kind notification.Kind, err error)
}

type noopDeliveryObserver struct{}

func (noopDeliveryObserver) ObserveNotification(notification.Kind, error) {}

// Dispatcher sends every message on its own goroutine. Deliveries are attempted
// once; failures are logged and never reach the caller.
type Dispatcher struct {
	notifier notification.Notifier
	observer DeliveryObserver
	logger   logger.Interface
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewDispatcher(notifier notification.Notifier, observer DeliveryObserver, logger logger.Interface) *Dispatcher {
	if observer == nil {
		observer = noopDeliveryObserver{}
	}
	return &Dispatcher{
		notifier: notifier,
		observer: observer,
		logger:   logger,
		timeout:  defaultSendTimeout,
	}
}

func (d *Dispatcher) Publish(ctx context.Context, msgs ...notification.Message) {
	base := context.WithoutCancel(ctx)
	for _, msg := range msgs {
		if err := msg.Validate(); err != nil {
			d.logger.Warnw("dropping invalid notification", "kind", msg.Kind, "permit_id", msg.PermitID, "error", err)
			continue
		}
		msg := msg
		goroutine.SafeGoTracked(&d.wg, d.logger, "notify-"+string(msg.Kind), func() {
			d.deliver(base, msg)
		})
	}
}

func (d *Dispatcher) deliver(ctx context.Context, msg notification.Message) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	err := d.notifier.Notify(ctx, msg)
	d.observer.ObserveNotification(msg.Kind, err)
	if err != nil {
		d.logger.Warnw("notification delivery failed",
			"kind", msg.Kind,
			"recipient_id", msg.Recipient.ID,
			"permit_id", msg.PermitID,
			"error", err,
		)
		return
	}
	d.logger.Debugw("notification delivered", "kind", msg.Kind, "recipient_id", msg.Recipient.ID)
}

// Wait blocks until every published message has been attempted.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
