// Package feed consumes live game snapshots from Redis Streams and drives
// the trigger engine.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Handler receives decoded feed messages.
type Handler interface {
	HandleSnapshot(ctx context.Context, msg SnapshotMessage) error
	HandleCompletion(ctx context.Context, msg CompletionMessage) error
}

// SnapshotMessage is the wire form of a live game snapshot.
type SnapshotMessage struct {
	GameID           string    `json:"game_id"`
	HomeTeam         string    `json:"home_team"`
	AwayTeam         string    `json:"away_team"`
	HomeScore        int       `json:"home_score"`
	AwayScore        int       `json:"away_score"`
	Period           int       `json:"period"`
	Clock            string    `json:"clock"`
	MinutesRemaining float64   `json:"minutes_remaining"`
	TotalLine        *float64  `json:"total_line,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// CompletionMessage marks a game final.
type CompletionMessage struct {
	GameID     string  `json:"game_id"`
	FinalTotal float64 `json:"final_total"`
}

// Config configures the stream consumer.
type Config struct {
	Stream        string
	Group         string
	Consumer      string
	BlockTimeout  time.Duration
	RatePerSecond float64
	RateBurst     int
}

// Consumer reads the snapshot stream through a consumer group and hands
// decoded messages to the handler. Messages are acked only after the
// handler returns, so a crash replays unprocessed entries.
type Consumer struct {
	client  *redis.Client
	config  Config
	handler Handler
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewConsumer creates a stream consumer.
func NewConsumer(client *redis.Client, config Config, handler Handler, logger *zap.Logger) *Consumer {
	if config.BlockTimeout <= 0 {
		config.BlockTimeout = 5 * time.Second
	}
	if config.RatePerSecond <= 0 {
		config.RatePerSecond = 50
	}
	if config.RateBurst < 1 {
		config.RateBurst = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{
		client:  client,
		config:  config,
		handler: handler,
		limiter: rate.NewLimiter(rate.Limit(config.RatePerSecond), config.RateBurst),
		logger:  logger,
	}
}

// Run consumes until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.config.Stream, c.config.Group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	c.logger.Info("feed consumer started",
		zap.String("stream", c.config.Stream),
		zap.String("group", c.config.Group),
		zap.String("consumer", c.config.Consumer))

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.config.Group,
			Consumer: c.config.Consumer,
			Streams:  []string{c.config.Stream, ">"},
			Count:    10,
			Block:    c.config.BlockTimeout,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("error reading from stream", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range streams {
			for _, message := range stream.Messages {
				if err := c.limiter.Wait(ctx); err != nil {
					return err
				}
				if err := c.dispatch(ctx, message); err != nil {
					c.logger.Warn("failed to process message",
						zap.String("id", message.ID), zap.Error(err))
					continue
				}
				if err := c.client.XAck(ctx, c.config.Stream, c.config.Group, message.ID).Err(); err != nil {
					c.logger.Warn("failed to ack message",
						zap.String("id", message.ID), zap.Error(err))
				}
			}
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, xmsg redis.XMessage) error {
	kind, _ := xmsg.Values["type"].(string)
	payload, ok := xmsg.Values["data"].(string)
	if !ok {
		return fmt.Errorf("missing 'data' field in message")
	}

	switch kind {
	case "snapshot", "":
		var msg SnapshotMessage
		if err := json.Unmarshal([]byte(payload), &msg); err != nil {
			return fmt.Errorf("failed to parse snapshot JSON: %w", err)
		}
		return c.handler.HandleSnapshot(ctx, msg)

	case "complete":
		var msg CompletionMessage
		if err := json.Unmarshal([]byte(payload), &msg); err != nil {
			return fmt.Errorf("failed to parse completion JSON: %w", err)
		}
		return c.handler.HandleCompletion(ctx, msg)

	default:
		return fmt.Errorf("unknown message type %q", kind)
	}
}
