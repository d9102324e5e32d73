package api

import (
	"context"
	"fmt"
	"net/url"
)

// Alert is a clinical alert raised against a patient.
type Alert struct {
	ID          int64  `json:"id"`
	Severity    string `json:"severity"`
	AlertType   string `json:"alert_type"`
	Description string `json:"description"`
	PatientName string `json:"patient_name"`
	PatientMRN  string `json:"patient_mrn"`
	Timestamp   string `json:"timestamp"`
}

// AlertStats aggregates open alerts by severity.
type AlertStats struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
}

// AlertQuery narrows an alert listing. Zero values are omitted.
type AlertQuery struct {
	Severity string
	Search   string
}

// AlertsService reads and dismisses clinical alerts.
type AlertsService struct {
	c *Client
}

// List returns open alerts matching the query.
func (s AlertsService) List(ctx context.Context, q AlertQuery) ([]Alert, error) {
	values := url.Values{}
	if q.Severity != "" {
		values.Set("severity", q.Severity)
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}

	var out []Alert
	if err := s.c.Get(ctx, "/clinical/alerts/", values, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats returns the open alert counts by severity.
func (s AlertsService) Stats(ctx context.Context) (AlertStats, error) {
	var out AlertStats
	if err := s.c.Get(ctx, "/clinical/alert-stats/", nil, &out); err != nil {
		return AlertStats{}, err
	}
	return out, nil
}

// Dismiss marks an alert as handled.
func (s AlertsService) Dismiss(ctx context.Context, id int64) error {
	return s.c.Post(ctx, fmt.Sprintf("/clinical/alerts/%d/dismiss/", id), nil, nil)
}
