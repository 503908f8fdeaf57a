// Package fixtures holds the static demo data served by the dashboard.
//
// Nothing here reflects a real subsystem: health checks are always OK,
// the deployment history is a fixed table and feature names are a fixed
// list. Real integrations belong in their own packages.
package fixtures

import (
	"time"

	"github.com/okian/shipboard/internal/domain/types"
)

// StatusOK is the status every demo check reports.
const StatusOK = "OK"

// Aggregate health states.
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

var healthChecks = []types.HealthCheck{
	{Name: "database", Status: StatusOK, ResponseTimeMS: 12},
	{Name: "cache", Status: StatusOK, ResponseTimeMS: 3},
	{Name: "external_api", Status: StatusOK, ResponseTimeMS: 87},
	{Name: "disk_space", Status: StatusOK, ResponseTimeMS: 1},
	{Name: "memory", Status: StatusOK, ResponseTimeMS: 1},
}

var deploymentHistory = []types.DeploymentRecord{
	{Version: "v1.2.3", DeployedAt: time.Date(2026, 10, 18, 14, 30, 0, 0, time.UTC), Status: "success", Duration: "2m 34s", DeployedBy: "ci-pipeline"},
	{Version: "v1.2.2", DeployedAt: time.Date(2026, 10, 15, 9, 12, 0, 0, time.UTC), Status: "success", Duration: "2m 41s", DeployedBy: "ci-pipeline"},
	{Version: "v1.2.1", DeployedAt: time.Date(2026, 10, 11, 17, 45, 0, 0, time.UTC), Status: "failed", Duration: "1m 05s", DeployedBy: "ci-pipeline"},
	{Version: "v1.2.0", DeployedAt: time.Date(2026, 10, 7, 11, 3, 0, 0, time.UTC), Status: "success", Duration: "3m 12s", DeployedBy: "release-manager"},
}

var featureNames = []string{"dark_mode", "new_dashboard", "beta_api", "enhanced_logging"}

// HealthChecks returns a copy of the five demo subsystem checks.
func HealthChecks() []types.HealthCheck {
	return append([]types.HealthCheck(nil), healthChecks...)
}

// HealthReport aggregates the demo checks at now.
func HealthReport(now time.Time) types.HealthReport {
	checks := HealthChecks()
	return types.HealthReport{
		Status:    Aggregate(checks),
		Checks:    checks,
		Timestamp: now,
	}
}

// Aggregate is healthy only when every check is OK.
func Aggregate(checks []types.HealthCheck) string {
	for _, c := range checks {
		if c.Status != StatusOK {
			return StatusDegraded
		}
	}
	return StatusHealthy
}

// DeploymentHistory returns a copy of the four demo records, newest first.
func DeploymentHistory() []types.DeploymentRecord {
	return append([]types.DeploymentRecord(nil), deploymentHistory...)
}

// FeatureNames returns a copy of the toggleable demo feature names.
func FeatureNames() []string {
	return append([]string(nil), featureNames...)
}
