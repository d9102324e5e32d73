package api

import (
	"context"
	"fmt"
	"net/url"
)

// Assessment is a wound assessment as listed in the console.
type Assessment struct {
	ID          int64  `json:"id"`
	PatientName string `json:"patient_name"`
	PatientMRN  string `json:"patient_mrn"`
	WoundType   string `json:"wound_type"`
	Location    string `json:"location"`
	Severity    string `json:"severity"`
	Status      string `json:"status"`
	AssessedBy  string `json:"assessed_by"`
	AssessedAt  string `json:"assessed_at"`
}

// AssessmentsService reads wound assessments.
type AssessmentsService struct {
	c *Client
}

// List returns assessments, optionally filtered by patient id (zero for all).
func (s AssessmentsService) List(ctx context.Context, patientID int64) ([]Assessment, error) {
	values := url.Values{}
	if patientID != 0 {
		values.Set("patient", fmt.Sprintf("%d", patientID))
	}

	var out []Assessment
	if err := s.c.Get(ctx, "/clinical/assessments/", values, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one assessment by id.
func (s AssessmentsService) Get(ctx context.Context, id int64) (Assessment, error) {
	var out Assessment
	if err := s.c.Get(ctx, fmt.Sprintf("/clinical/assessments/%d/", id), nil, &out); err != nil {
		return Assessment{}, err
	}
	return out, nil
}
