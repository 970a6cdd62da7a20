package http

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	appNotification "github.com/orris-inc/permitgate/internal/application/notification"
	"github.com/orris-inc/permitgate/internal/domain/notification"
	"github.com/orris-inc/permitgate/internal/infrastructure/config"
	infraDirectory "github.com/orris-inc/permitgate/internal/infrastructure/directory"
	"github.com/orris-inc/permitgate/internal/infrastructure/email"
	"github.com/orris-inc/permitgate/internal/infrastructure/sms"
	"github.com/orris-inc/permitgate/internal/shared/logger"
	"github.com/orris-inc/permitgate/internal/shared/markdown"
)

// initRedis creates and tests the Redis client connection.
func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Infow("redis connection established", "addr", cfg.Redis.GetAddr())

	return redisClient, nil
}

func newDirectory(cfg *config.Config) (*infraDirectory.StaticDirectory, error) {
	dir, err := infraDirectory.NewFromConfig(cfg.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to load directory: %w", err)
	}
	return dir, nil
}

// initNotifications routes email through SMTP when enabled, SMS to the log and
// in-app messages to the inbox table.
func (c *Container) initNotifications() {
	var emailNotifier notification.Notifier
	if c.cfg.Email.Enabled {
		emailNotifier = email.NewSMTPNotifier(email.SMTPConfig{
			Host:        c.cfg.Email.SMTPHost,
			Port:        c.cfg.Email.SMTPPort,
			Username:    c.cfg.Email.SMTPUser,
			Password:    c.cfg.Email.SMTPPassword,
			FromAddress: c.cfg.Email.FromAddress,
			FromName:    c.cfg.Email.FromName,
		}, markdown.NewRenderer())
	} else {
		c.log.Infow("email notifications disabled")
	}

	router := appNotification.NewRouter(
		emailNotifier,
		sms.NewLogNotifier(c.log.Named("sms")),
		appNotification.NewInboxNotifier(c.repos.inboxRepo, c.clock),
	)
	c.dispatcher = appNotification.NewDispatcher(router, c.metrics, c.log.Named("notification"))
}
