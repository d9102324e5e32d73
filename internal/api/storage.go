package api

import "context"

// StorageSummary reports capacity usage of the backend's data stores.
type StorageSummary struct {
	UsedPercentage        float64            `json:"used_percentage"`
	UsedCapacity          string             `json:"used_capacity"`
	TotalCapacity         string             `json:"total_capacity"`
	DatabaseUsageGB       float64            `json:"database_usage_gb"`
	DatabasePercentage    float64            `json:"database_percentage"`
	FileStorageGB         float64            `json:"file_storage_gb"`
	FileStoragePercentage float64            `json:"file_storage_percentage"`
	Breakdown             []StorageBreakdown `json:"breakdown"`
}

// StorageBreakdown is one named slice of the usage breakdown.
type StorageBreakdown struct {
	Label      string  `json:"label"`
	UsageGB    float64 `json:"usage_gb"`
	Percentage float64 `json:"percentage"`
}

// StorageService reads storage metrics (admin only server-side).
type StorageService struct {
	c *Client
}

// Summary returns the current storage usage summary.
func (s StorageService) Summary(ctx context.Context) (StorageSummary, error) {
	var out StorageSummary
	if err := s.c.Get(ctx, "/storage/summary/", nil, &out); err != nil {
		return StorageSummary{}, err
	}
	return out, nil
}
