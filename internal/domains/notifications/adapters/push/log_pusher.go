// Package push holds Pusher implementations. Delivery to a real provider lives outside this service.
package push

import (
	"context"
	"log/slog"

	"github.com/Apurer/daycare-api/internal/domains/notifications/domain"
	"github.com/Apurer/daycare-api/internal/domains/notifications/ports"
)

// LogPusher records every push as a structured log line and reports full success.
type LogPusher struct {
	logger *slog.Logger
}

func NewLogPusher(logger *slog.Logger) *LogPusher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPusher{logger: logger}
}

func (p *LogPusher) SendMulticast(ctx context.Context, tokens []string, msg domain.Message) (domain.BatchResult, error) {
	p.logger.LogAttrs(ctx, slog.LevelInfo, "push multicast",
		slog.Int("tokens", len(tokens)),
		slog.String("title", msg.Title),
		slog.String("body", msg.Body),
		slog.Any("data", msg.Data),
	)
	return domain.BatchResult{SuccessCount: len(tokens)}, nil
}

func (p *LogPusher) SendTopic(ctx context.Context, topic string, msg domain.Message) error {
	p.logger.LogAttrs(ctx, slog.LevelInfo, "push topic",
		slog.String("topic", topic),
		slog.String("title", msg.Title),
		slog.String("body", msg.Body),
		slog.Any("data", msg.Data),
	)
	return nil
}

var _ ports.Pusher = (*LogPusher)(nil)
