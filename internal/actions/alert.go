package actions

import (
	"fmt"
	"strings"
)

// Alert type constants.
const (
	AlertCritical = "critical"
	AlertWarning  = "warning"
)

// urgentMarker flags an anomaly as critical. Matching is case-sensitive.
const urgentMarker = "Urgent"

// genericAlertDetails is used when the first anomaly carries no reason text.
const genericAlertDetails = "Review your health data"

// Anomaly is an externally detected deviation record. Only Reason is
// inspected here; the remaining fields are carried for display.
type Anomaly struct {
	Reason string  `json:"reason"`
	Metric string  `json:"metric,omitempty"`
	Date   string  `json:"date,omitempty"`
	Value  float64 `json:"value,omitempty"`
}

// Alert is a summarized critical/warning notification derived from a list
// of anomalies.
type Alert struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details"`
}

// ClassifyAlert summarizes a list of anomalies into a single alert.
//
// Anomalies whose reason contains the urgent marker produce a critical
// alert covering only those; otherwise all anomalies are rolled into one
// warning. Returns nil when the list is empty or absent.
func ClassifyAlert(anomalies []Anomaly) *Alert {
	if len(anomalies) == 0 {
		return nil
	}

	var urgent []string
	for _, a := range anomalies {
		if strings.Contains(a.Reason, urgentMarker) {
			urgent = append(urgent, a.Reason)
		}
	}

	if len(urgent) > 0 {
		return &Alert{
			Type:    AlertCritical,
			Message: fmt.Sprintf("%d critical health metrics detected", len(urgent)),
			Details: strings.Join(urgent, ", "),
		}
	}

	details := anomalies[0].Reason
	if details == "" {
		details = genericAlertDetails
	}
	return &Alert{
		Type:    AlertWarning,
		Message: fmt.Sprintf("%d health metrics need attention", len(anomalies)),
		Details: details,
	}
}
