package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"

	apperrors "github.com/mediwound/wardview/internal/errors"
)

// NurseStats is the headline figures on the nurse dashboard.
type NurseStats struct {
	AssignedPatients int `json:"assigned_patients"`
	TasksDue         int `json:"tasks_due"`
	TasksCompleted   int `json:"tasks_completed"`
	CriticalAlerts   int `json:"critical_alerts"`
}

// NurseTask is one item on the nurse's worklist.
type NurseTask struct {
	ID          int64  `json:"id"`
	PatientName string `json:"patient_name"`
	PatientMRN  string `json:"patient_mrn"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status"`
}

// TaskUpdate carries partial updates to a task. Nil fields are untouched.
type TaskUpdate struct {
	Status   *string `json:"status,omitempty"`
	Priority *string `json:"priority,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// Vitals is one set of recorded patient vitals.
type Vitals struct {
	PatientID        int64   `json:"patient_id"`
	Temperature      float64 `json:"temperature"`
	HeartRate        int     `json:"heart_rate"`
	BloodPressureSys int     `json:"blood_pressure_sys"`
	BloodPressureDia int     `json:"blood_pressure_dia"`
	OxygenSaturation int     `json:"oxygen_saturation"`
	Notes            string  `json:"notes,omitempty"`
}

// NurseService serves the nurse dashboard, worklist, and clinical actions.
type NurseService struct {
	c *Client
}

// Stats returns the nurse's headline figures.
func (s NurseService) Stats(ctx context.Context) (NurseStats, error) {
	var out NurseStats
	if err := s.c.Get(ctx, "/clinical/nurse/dashboard-stats/", nil, &out); err != nil {
		return NurseStats{}, err
	}
	return out, nil
}

// Tasks returns the nurse's current worklist.
func (s NurseService) Tasks(ctx context.Context) ([]NurseTask, error) {
	var out []NurseTask
	if err := s.c.Get(ctx, "/clinical/nurse/tasks/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateTask applies a partial update to a task.
func (s NurseService) UpdateTask(ctx context.Context, id int64, in TaskUpdate) (NurseTask, error) {
	var out NurseTask
	if err := s.c.Patch(ctx, fmt.Sprintf("/clinical/nurse/tasks/%d/", id), in, &out); err != nil {
		return NurseTask{}, err
	}
	return out, nil
}

// CompleteTask marks a task as done.
func (s NurseService) CompleteTask(ctx context.Context, id int64) error {
	return s.c.Post(ctx, fmt.Sprintf("/clinical/nurse/tasks/%d/complete/", id), nil, nil)
}

// RecordVitals records a set of vitals for a patient.
func (s NurseService) RecordVitals(ctx context.Context, in Vitals) error {
	return s.c.Post(ctx, "/clinical/nurse/clinical/record-vitals/", in, nil)
}

// UploadWoundImage uploads a wound photo for a patient. The image is read
// fully before sending so the request can be replayed after a token refresh.
func (s NurseService) UploadWoundImage(ctx context.Context, patientID int64, filename string, image io.Reader) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("patient_id", fmt.Sprintf("%d", patientID)); err != nil {
		return apperrors.Internal("build upload", err)
	}
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return apperrors.Internal("build upload", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return apperrors.Internal("read image", err)
	}
	if err := w.Close(); err != nil {
		return apperrors.Internal("build upload", err)
	}

	return s.c.PostMultipart(ctx, "/clinical/nurse/clinical/upload-wound/", buf.Bytes(), w.FormDataContentType(), nil)
}
