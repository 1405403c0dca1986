package application

import "figvault/internal/domain"

// Re-export strategy values for use by adapters
type Strategy = domain.Strategy

const (
	StrategyContent = domain.StrategyContent
	StrategyOutput  = domain.StrategyOutput
)

// Re-export domain types for use by adapters
type (
	FontEntry   = domain.FontEntry
	Fingerprint = domain.Fingerprint
	ImportEvent = domain.ImportEvent
	Outcome     = domain.Outcome
)

// ParseStrategy parses a strategy name as given on the command line
func ParseStrategy(name string) (Strategy, error) {
	return domain.ParseStrategy(name)
}
