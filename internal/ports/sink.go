package ports

import "figvault/internal/domain"

// EventSink receives the import event sequence in emission order and is
// responsible for persistence. Exactly one event arrives per candidate.
type EventSink interface {
	Emit(event domain.ImportEvent) error
	Close() error
}
