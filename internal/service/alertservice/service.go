package alertservice

import (
	"context"
	"fmt"

	"stockledger/internal/domain"
	"stockledger/internal/pkg/logger"
)

// AlertStore persiste alertas garantindo no máximo um ativo por StockRecord.
type AlertStore interface {
	// CreateIfNoneActive devolve (alerta, true) se criou, ou (alerta ativo existente, false).
	CreateIfNoneActive(ctx context.Context, alert domain.StockAlert) (domain.StockAlert, bool, error)
	ListActiveAlerts(ctx context.Context, filter domain.ListFilter) ([]domain.StockAlert, error)
}

// RecipientDirectory resolve quem deve ser avisado sobre um armazém.
type RecipientDirectory interface {
	ManagerEmails(ctx context.Context, warehouseID string) ([]string, error)
}

// Enqueuer recebe intenções de notificação para entrega assíncrona.
type Enqueuer interface {
	Enqueue(intent NotificationIntent) bool
}

// NotificationIntent é o que o alerta entrega ao despacho: destinatários, assunto e corpo.
type NotificationIntent struct {
	Recipients []string          `json:"recipients"`
	Subject    string            `json:"subject"`
	Body       string            `json:"body"`
	Alert      domain.StockAlert `json:"alert"`
}

// Service observa commits do ledger e abre alertas de estoque baixo.
type Service struct {
	store      AlertStore
	recipients RecipientDirectory
	dispatcher Enqueuer
	logger     logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Alertas.
func NewService(store AlertStore, recipients RecipientDirectory, dispatcher Enqueuer, logger logger.Logger) *Service {
	return &Service{store: store, recipients: recipients, dispatcher: dispatcher, logger: logger}
}

// Classify decide se o registro merece alerta e de qual tipo.
func Classify(rec domain.StockRecord) (domain.AlertType, bool) {
	if !rec.IsLow() {
		return "", false
	}
	if rec.Quantity == 0 {
		return domain.AlertOutOfStock, true
	}
	return domain.AlertLowStock, true
}

// OnStockCommitted é registrado como hook pós-commit do ledger.
// Falhas são registradas em log e nunca afetam a operação que disparou o hook.
func (s *Service) OnStockCommitted(ctx context.Context, records []domain.StockRecord) {
	for _, rec := range records {
		alertType, ok := Classify(rec)
		if !ok {
			continue
		}

		alert, created, err := s.store.CreateIfNoneActive(ctx, domain.StockAlert{
			StockRecordID: rec.ID,
			WarehouseID:   rec.WarehouseID,
			VariantID:     rec.VariantID,
			AlertType:     alertType,
			Quantity:      rec.Quantity,
			Threshold:     rec.LowStockThreshold,
		})
		if err != nil {
			s.logger.Error(fmt.Sprintf("Falha ao criar alerta de estoque para %s.", rec.ID), err)
			continue
		}
		if !created {
			s.logger.Debug("Alerta ativo já existe para o registro.", map[string]interface{}{"stock_record_id": rec.ID, "alert_id": alert.ID})
			continue
		}

		s.logger.Info("Alerta de estoque criado.", map[string]interface{}{
			"alert_id":     alert.ID,
			"alert_type":   alert.AlertType,
			"warehouse_id": alert.WarehouseID,
			"variant_id":   alert.VariantID,
			"quantity":     alert.Quantity,
		})
		s.handOff(ctx, alert)
	}
}

// ListActiveAlerts lista os alertas ativos, opcionalmente de um armazém.
func (s *Service) ListActiveAlerts(ctx context.Context, filter domain.ListFilter) ([]domain.StockAlert, error) {
	return s.store.ListActiveAlerts(ctx, filter.Normalize())
}

func (s *Service) handOff(ctx context.Context, alert domain.StockAlert) {
	emails, err := s.recipients.ManagerEmails(ctx, alert.WarehouseID)
	if err != nil {
		s.logger.Error("Falha ao buscar gerentes do armazém para o alerta.", err)
		return
	}
	if len(emails) == 0 {
		s.logger.Info("Armazém sem gerentes; notificação não enviada.", map[string]interface{}{"warehouse_id": alert.WarehouseID})
		return
	}

	intent := NotificationIntent{
		Recipients: emails,
		Subject:    subjectFor(alert),
		Body: fmt.Sprintf("A variante %s no armazém %s está com %d unidades (limite %d).",
			alert.VariantID, alert.WarehouseID, alert.Quantity, alert.Threshold),
		Alert: alert,
	}
	if !s.dispatcher.Enqueue(intent) {
		s.logger.Warn("Fila de notificações cheia; intenção descartada.", map[string]interface{}{"alert_id": alert.ID})
	}
}

func subjectFor(alert domain.StockAlert) string {
	if alert.AlertType == domain.AlertOutOfStock {
		return fmt.Sprintf("Estoque esgotado: variante %s", alert.VariantID)
	}
	return fmt.Sprintf("Estoque baixo: variante %s", alert.VariantID)
}
