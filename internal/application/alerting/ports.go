package alerting

// Notifier recibe las transiciones de alerta después de un commit exitoso.
// La notificación es best-effort y eventualmente consistente; nunca participa
// de la transacción del movimiento.
type Notifier interface {
	NotifyTransitions(transitions []Transition)
}

// NopNotifier descarta las notificaciones. Útil en tests y en despliegues sin stream.
type NopNotifier struct{}

func (NopNotifier) NotifyTransitions([]Transition) {}
