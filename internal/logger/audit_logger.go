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

// LogScenarioSaved logs a scenario being created or replaced.
func (al *AuditLogger) LogScenarioSaved(scenarioID, name, store string, created bool, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"scenario_id": scenarioID,
		"name":        name,
		"store":       store,
		"created":     created,
		"timestamp":   timestamp.Unix(),
	}).Info("Scenario saved")
}

// LogConfigurationLoaded logs the effective configuration source.
func (al *AuditLogger) LogConfigurationLoaded(path, environment string, databaseEnabled bool) {
	al.WithFields(logrus.Fields{
		"config_path":      path,
		"environment":      environment,
		"database_enabled": databaseEnabled,
	}).Info("Configuration loaded")
}
