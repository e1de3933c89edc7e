// Package display mirrors the live cart to a customer-facing screen.
// Publishing is fire-and-forget: the ledger never waits on, retries, or
// fails because of the display channel.
package display

import (
	"context"
	"encoding/json"
	"sync"

	redis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"puntoventa/backend/internal/domain"
)

// Frame is one display update. A frame is only published while a cart is
// in progress; an idle register publishes nothing so a paused display
// keeps its last content.
type Frame struct {
	Items          []domain.LineItem    `json:"items"`
	CustomerName   string               `json:"customer_name,omitempty"`
	Method         domain.PaymentMethod `json:"method"`
	AmountPaid     decimal.Decimal      `json:"amount_paid"`
	GlobalDiscount decimal.Decimal      `json:"global_discount"`
	Total          decimal.Decimal      `json:"total"`
}

type Sink interface {
	Publish(ctx context.Context, frame Frame) error
}

// Noop drops every frame. Used when no display channel is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Frame) error { return nil }

// RedisSink publishes frames on a pub/sub channel for the display client.
type RedisSink struct {
	client  *redis.Client
	channel string
}

func NewRedisSink(addr string, password string, db int, channel string) *RedisSink {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if channel == "" {
		channel = "puntoventa:display"
	}
	return &RedisSink{client: client, channel: channel}
}

func (s *RedisSink) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisSink) Close() error {
	return s.client.Close()
}

func (s *RedisSink) Publish(ctx context.Context, frame Frame) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, s.channel, payload).Err()
}

// Recorder captures published frames for tests.
type Recorder struct {
	mu     sync.Mutex
	frames []Frame
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(_ context.Context, frame Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, frame)
	return nil
}

func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Frame(nil), r.frames...)
}
