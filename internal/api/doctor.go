package api

import "context"

// DoctorStats is the headline figures on the doctor dashboard.
type DoctorStats struct {
	PatientsToday      int `json:"patients_today"`
	PendingAssessments int `json:"pending_assessments"`
	CriticalAlerts     int `json:"critical_alerts"`
	OpenTasks          int `json:"open_tasks"`
}

// DoctorSummary is the narrative portion of the doctor dashboard.
type DoctorSummary struct {
	Headline   string   `json:"headline"`
	Highlights []string `json:"highlights"`
}

// ScheduleItem is one appointment on the doctor's schedule.
type ScheduleItem struct {
	ID          int64  `json:"id"`
	Time        string `json:"time"`
	PatientName string `json:"patient_name"`
	PatientMRN  string `json:"patient_mrn"`
	Purpose     string `json:"purpose"`
	Status      string `json:"status"`
}

// NewDoctorTask carries the fields for delegating a task to nursing staff.
type NewDoctorTask struct {
	PatientID   int64  `json:"patient_id"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date,omitempty"`
}

// DoctorService serves the doctor dashboard.
type DoctorService struct {
	c *Client
}

// Stats returns the doctor's headline figures.
func (s DoctorService) Stats(ctx context.Context) (DoctorStats, error) {
	var out DoctorStats
	if err := s.c.Get(ctx, "/clinical/doctor/stats/", nil, &out); err != nil {
		return DoctorStats{}, err
	}
	return out, nil
}

// Summary returns the doctor's dashboard summary.
func (s DoctorService) Summary(ctx context.Context) (DoctorSummary, error) {
	var out DoctorSummary
	if err := s.c.Get(ctx, "/clinical/doctor/summary/", nil, &out); err != nil {
		return DoctorSummary{}, err
	}
	return out, nil
}

// Schedule returns today's appointments.
func (s DoctorService) Schedule(ctx context.Context) ([]ScheduleItem, error) {
	var out []ScheduleItem
	if err := s.c.Get(ctx, "/clinical/doctor/schedule/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTask delegates a task to nursing staff.
func (s DoctorService) CreateTask(ctx context.Context, in NewDoctorTask) error {
	return s.c.Post(ctx, "/clinical/doctor/tasks/", in, nil)
}
