package alertservice

import (
	"context"
	"strings"

	"stockledger/internal/pkg/logger"
	"stockledger/internal/pkg/messaging"
)

// AlertCreatedEvent é o tipo do evento publicado para cada alerta aberto.
const AlertCreatedEvent = "stock.alert.created"

// PublisherNotifier publica a intenção em um broker; o consumidor faz a entrega do e-mail.
type PublisherNotifier struct {
	Publisher messaging.Publisher
}

func (n PublisherNotifier) Notify(ctx context.Context, intent NotificationIntent) error {
	return n.Publisher.Publish(ctx, messaging.Event{
		Type:      AlertCreatedEvent,
		Key:       intent.Alert.StockRecordID,
		Timestamp: intent.Alert.CreatedAt,
		Payload:   intent,
	})
}

// LogNotifier só registra a intenção. Usado quando não há broker configurado.
type LogNotifier struct {
	Logger logger.Logger
}

func (n LogNotifier) Notify(ctx context.Context, intent NotificationIntent) error {
	n.Logger.Info("Notificação de alerta (sem broker configurado).", map[string]interface{}{
		"recipients": strings.Join(intent.Recipients, ","),
		"subject":    intent.Subject,
		"alert_id":   intent.Alert.ID,
	})
	return nil
}
