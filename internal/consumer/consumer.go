package consumer

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"instacampus/internal/config"
	"instacampus/internal/entity"
)

type LogAppender interface {
	AppendLog(ctx context.Context, event *entity.InventoryEvent) error
}

// Consumer tails the order and inventory topics and appends every stock
// change to the inventory_logs audit table.
type Consumer struct {
	logs LogAppender
}

func NewConsumer(logs LogAppender) *Consumer {
	return &Consumer{logs: logs}
}

// StartInventoryConsumer reads vendor restock/deduct events.
func (c *Consumer) StartInventoryConsumer() {
	reader := config.NewKafkaReader(config.InventoryTopic, "inventory-audit-group")

	for {
		ctx := context.Background()
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			log.Error().Msgf("Error reading inventory message: %v", err)
			continue
		}

		var event entity.InventoryEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error().Msgf("Error unmarshalling inventory event: %v", err)
			continue
		}

		if err := c.logs.AppendLog(ctx, &event); err != nil {
			log.Error().Msgf("Error appending inventory log for product %d: %v", event.ProductID, err)
		}
	}
}

// StartOrderConsumer reads order lifecycle events and records the implied
// stock movements (deduction on creation, restoration on cancellation).
func (c *Consumer) StartOrderConsumer() {
	reader := config.NewKafkaReader(config.OrderTopic, "inventory-audit-group")

	for {
		ctx := context.Background()
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			log.Error().Msgf("Error reading order message: %v", err)
			continue
		}

		c.processOrderMessage(ctx, msg)
	}
}

func (c *Consumer) processOrderMessage(ctx context.Context, msg kafka.Message) {
	var order entity.Order
	if err := json.Unmarshal(msg.Value, &order); err != nil {
		log.Error().Msgf("Error unmarshalling order event: %v", err)
		return
	}

	// key -> "order.created.<id>" / "order.cancelled.<id>" / "order.status.<id>"
	parts := strings.Split(string(msg.Key), ".")
	if len(parts) < 2 {
		log.Error().Msgf("Malformed order event key: %s", msg.Key)
		return
	}

	switch parts[1] {
	case "created":
		for _, item := range order.Items {
			c.append(ctx, &entity.InventoryEvent{
				ProductID: item.ProductID,
				Delta:     -item.Quantity,
				Reason:    entity.InventoryReasonOrderPlaced,
				ActorID:   order.UserID,
			})
		}
	case "cancelled":
		for _, item := range order.Items {
			c.append(ctx, &entity.InventoryEvent{
				ProductID: item.ProductID,
				Delta:     item.Quantity,
				Reason:    entity.InventoryReasonOrderCancel,
				ActorID:   order.UserID,
			})
		}
	case "status":
		// status moves carry no stock change
	default:
		log.Error().Msgf("Unknown order event type: %s", parts[1])
	}
}

func (c *Consumer) append(ctx context.Context, event *entity.InventoryEvent) {
	if err := c.logs.AppendLog(ctx, event); err != nil {
		log.Error().Msgf("Error appending inventory log for product %d: %v", event.ProductID, err)
	}
}
