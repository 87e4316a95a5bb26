package eventbus

import (
	"context"
	"time"

	"github.com/dukex/caseflow/pkg/events"
	"github.com/dukex/caseflow/pkg/protocol"
)

// BusNotifier implements protocol.Notifier by publishing notification
// requests onto the event bus. Chat and email transports consume them
// downstream; the dispatch outcome here only covers the publish.
type BusNotifier struct {
	bus EventBus
}

func NewBusNotifier(bus EventBus) protocol.Notifier {
	return &BusNotifier{bus: bus}
}

func (n *BusNotifier) Send(ctx context.Context, recipient, message, channel string) error {
	event := events.NotificationRequested{
		BaseEvent: events.BaseEvent{
			ID:        n.bus.GenerateID(),
			Type:      events.NotificationRequestedEvent,
			Timestamp: time.Now().UTC(),
		},
		Recipient: recipient,
		Channel:   channel,
		Message:   message,
	}

	return n.bus.Publish(ctx, recipient, event)
}
