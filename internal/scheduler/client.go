package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"invoicing_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Client enqueues document lifecycle tasks on the asynq queue.
type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueSweeps schedules the overdue sweep, the expiry sweep, and the
// reminder dispatch for the given date.
func (c *Client) EnqueueSweeps(ctx context.Context, scheduledFor time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}

	payload := SweepPayload{ScheduledFor: scheduledFor.Format("2006-01-02")}

	overdue, err := NewInvoiceOverdueSweepTask(payload)
	if err != nil {
		return err
	}
	expiry, err := NewQuoteExpirySweepTask(payload)
	if err != nil {
		return err
	}
	reminders, err := NewDueRemindersTask(payload)
	if err != nil {
		return err
	}

	for _, task := range []*asynq.Task{overdue, expiry, reminders} {
		if _, err := c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue)); err != nil {
			return err
		}
	}
	return nil
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
