package api

import (
	"context"
	"fmt"
	"net/url"
)

// Patient is a patient record as listed in the console.
type Patient struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	MRN           string `json:"mrn"`
	Status        string `json:"status"`
	AdmissionDate string `json:"admission_date"`
	ActiveWounds  int    `json:"active_wounds"`
}

// NewPatient carries the fields for admitting a patient.
type NewPatient struct {
	Name          string `json:"name"`
	MRN           string `json:"mrn"`
	DateOfBirth   string `json:"date_of_birth"`
	AdmissionDate string `json:"admission_date"`
	Notes         string `json:"notes,omitempty"`
}

// PatientsService manages patient records.
type PatientsService struct {
	c *Client
}

// List returns patients, optionally filtered by a search term.
func (s PatientsService) List(ctx context.Context, search string) ([]Patient, error) {
	values := url.Values{}
	if search != "" {
		values.Set("search", search)
	}

	var out []Patient
	if err := s.c.Get(ctx, "/clinical/patients/", values, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one patient by id.
func (s PatientsService) Get(ctx context.Context, id int64) (Patient, error) {
	var out Patient
	if err := s.c.Get(ctx, fmt.Sprintf("/clinical/patients/%d/", id), nil, &out); err != nil {
		return Patient{}, err
	}
	return out, nil
}

// Create admits a new patient and returns the stored record.
func (s PatientsService) Create(ctx context.Context, in NewPatient) (Patient, error) {
	var out Patient
	if err := s.c.Post(ctx, "/clinical/patients/", in, &out); err != nil {
		return Patient{}, err
	}
	return out, nil
}
