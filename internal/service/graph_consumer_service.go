package service

import (
	"context"
	"encoding/json"

	"velto-memory-be/internal/dto"
	"velto-memory-be/internal/pkg/logger"
	"velto-memory-be/pkg/graph"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IGraphConsumerService interface {
	Consume(ctx context.Context) error
}

// graphConsumerService drains the rebuild topic and runs the graph builder.
// Build failures are logged and the message is acked: the graph is a derived
// artifact and the next qualifying write retriggers it.
type graphConsumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	builder   *graph.Builder
	logger    logger.ILogger
}

func NewGraphConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	builder *graph.Builder,
	log logger.ILogger,
) IGraphConsumerService {
	return &graphConsumerService{
		pubSub:    pubSub,
		topicName: topicName,
		builder:   builder,
		logger:    log,
	}
}

func (gs *graphConsumerService) Consume(ctx context.Context) error {
	messages, err := gs.pubSub.Subscribe(ctx, gs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			gs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (gs *graphConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.RebuildGraphMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		gs.logger.Error("graph_consumer", "failed to unmarshal rebuild message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	gs.logger.Info("graph_consumer", "rebuilding context graph", map[string]interface{}{
		"project_id": payload.ProjectId.String(),
		"user_id":    payload.UserId.String(),
	})

	if err := gs.builder.Rebuild(ctx, payload.ProjectId, payload.UserId); err != nil {
		gs.logger.Error("graph_consumer", "graph rebuild failed", map[string]interface{}{
			"project_id": payload.ProjectId.String(),
			"user_id":    payload.UserId.String(),
			"error":      err.Error(),
		})
	}

	msg.Ack()
}
