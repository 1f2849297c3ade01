// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogPlanPersisted logs a plan written to storage.
func (al *AuditLogger) LogPlanPersisted(planID, country string, bets int, totalStaked float64, createdAt time.Time) {
	al.WithFields(logrus.Fields{
		"plan_id":      planID,
		"country":      country,
		"bets":         bets,
		"total_staked": totalStaked,
		"timestamp":    createdAt.Unix(),
	}).Info("Allocation plan persisted")
}

// LogParameterOverride logs a staking parameter that differs from its configured value.
func (al *AuditLogger) LogParameterOverride(parameterName string, configured, requested interface{}, source string) {
	al.WithFields(logrus.Fields{
		"parameter_name": parameterName,
		"configured":     configured,
		"requested":      requested,
		"source":         source,
	}).Info("Staking parameter overridden")
}

// LogCircuitBreakerEvent logs circuit breaker transitions.
func (al *AuditLogger) LogCircuitBreakerEvent(feed, eventType, reason string, failures int) {
	al.WithFields(logrus.Fields{
		"feed":       feed,
		"event_type": eventType,
		"reason":     reason,
		"failures":   failures,
	}).Warn("Circuit breaker event recorded")
}
