package api

import (
	"context"
	"net/url"
)

// LogEntry is one row of the system activity log.
type LogEntry struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
	UserName  string `json:"user_name"`
	IPAddress string `json:"ip_address"`
	Action    string `json:"action"`
	Severity  string `json:"severity"`
}

// LogQuery narrows a log listing. Zero values are omitted.
type LogQuery struct {
	Search    string
	Severity  string
	StartDate string
	EndDate   string
}

// LogsService reads the system activity log (admin only server-side).
type LogsService struct {
	c *Client
}

// List returns log entries matching the query, newest first.
func (s LogsService) List(ctx context.Context, q LogQuery) ([]LogEntry, error) {
	values := url.Values{}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.Severity != "" {
		values.Set("severity", q.Severity)
	}
	if q.StartDate != "" {
		values.Set("start_date", q.StartDate)
	}
	if q.EndDate != "" {
		values.Set("end_date", q.EndDate)
	}

	var out []LogEntry
	if err := s.c.Get(ctx, "/logs/", values, &out); err != nil {
		return nil, err
	}
	return out, nil
}
