package alertservice

import (
	"context"
	"sync"

	"stockledger/internal/pkg/logger"
)

// Notifier entrega uma intenção de notificação (Kafka, log).
type Notifier interface {
	Notify(ctx context.Context, intent NotificationIntent) error
}

// Dispatcher desacopla a entrega das notificações do caminho de escrita.
// A fila é limitada; quando cheia, Enqueue descarta a intenção.
type Dispatcher struct {
	queue    chan NotificationIntent
	notifier Notifier
	logger   logger.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher cria o despachante com fila de tamanho size.
func NewDispatcher(notifier Notifier, size int, logger logger.Logger) *Dispatcher {
	if size <= 0 {
		size = 1
	}
	return &Dispatcher{queue: make(chan NotificationIntent, size), notifier: notifier, logger: logger}
}

// Start inicia os workers de entrega.
func (d *Dispatcher) Start(workers int) {
	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.run()
	}
}

// Enqueue agenda a entrega sem bloquear. Devolve false se a fila está cheia ou fechada.
func (d *Dispatcher) Enqueue(intent NotificationIntent) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}
	select {
	case d.queue <- intent:
		return true
	default:
		return false
	}
}

// Stop fecha a fila e espera os workers esvaziarem o que já foi aceito, até ctx expirar.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for intent := range d.queue {
		if err := d.notifier.Notify(context.Background(), intent); err != nil {
			d.logger.Error("Falha ao entregar notificação de alerta.", err)
		}
	}
}
