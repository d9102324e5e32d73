package api

// Accessors for the typed resource clients. Each is a stateless view over
// the chokepoint client, so they are cheap to create at call sites.

// Users returns the staff account client (admin only server-side).
func (c *Client) Users() UsersService { return UsersService{c} }

// Logs returns the system log client (admin only server-side).
func (c *Client) Logs() LogsService { return LogsService{c} }

// Storage returns the storage metrics client (admin only server-side).
func (c *Client) Storage() StorageService { return StorageService{c} }

// Alerts returns the clinical alert client.
func (c *Client) Alerts() AlertsService { return AlertsService{c} }

// Patients returns the patient record client.
func (c *Client) Patients() PatientsService { return PatientsService{c} }

// Assessments returns the wound assessment client.
func (c *Client) Assessments() AssessmentsService { return AssessmentsService{c} }

// Doctor returns the doctor dashboard client.
func (c *Client) Doctor() DoctorService { return DoctorService{c} }

// Nurse returns the nurse dashboard and task client.
func (c *Client) Nurse() NurseService { return NurseService{c} }
