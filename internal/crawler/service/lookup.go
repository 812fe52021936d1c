package service

import (
	"log/slog"

	"nsdc/internal/crawler/ports"
	"nsdc/internal/platform/metrics"
)

// countingLookup records country resolution hits and misses. Misses are
// logged at debug level so unknown spellings can be added as aliases.
type countingLookup struct {
	next    ports.CountryLookup
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func (l *countingLookup) Lookup(text string) (string, bool) {
	code, ok := l.next.Lookup(text)
	l.metrics.RecordCountryLookup(ok)
	if !ok && l.logger != nil {
		l.logger.Debug("Country not resolved", slog.String("text", text))
	}
	return code, ok
}
