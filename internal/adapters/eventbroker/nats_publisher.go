package eventbroker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/ports"
)

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	PublishMsg(msg *nats.Msg) error
}

// NatsPublisher forwards mutation outcomes to NATS so other processes
// (a native shell, a notifier) can follow pending and failed operations.
type NatsPublisher struct {
	nc     Conn
	prefix string
	logger *zap.Logger
}

var _ ports.OutcomeNotifier = (*NatsPublisher)(nil)

func NewNatsPublisher(nc Conn, prefix string, logger *zap.Logger) *NatsPublisher {
	if prefix == "" {
		prefix = "engage.outcome"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NatsPublisher{nc: nc, prefix: prefix, logger: logger}
}

// Subject is <prefix>.<entity>.<kind>.<status>.
func (p *NatsPublisher) Subject(o domain.Outcome) string {
	return fmt.Sprintf("%s.%s.%s.%s", p.prefix, o.Key.Entity, o.Key.Kind, o.Status)
}

func (p *NatsPublisher) Notify(_ context.Context, outcome domain.Outcome) {
	data, err := json.Marshal(outcome)
	if err != nil {
		p.logger.Error("failed to encode outcome", zap.Error(err))
		return
	}

	msg := &nats.Msg{Subject: p.Subject(outcome), Data: data, Header: nats.Header{}}
	msg.Header.Set("Target-Id", outcome.Key.ID)

	// publish failures are only logged
	if err := p.nc.PublishMsg(msg); err != nil {
		p.logger.Warn("failed to publish outcome", zap.String("subject", msg.Subject), zap.Error(err))
	}
}
