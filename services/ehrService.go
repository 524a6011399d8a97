package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"medisight/models"
	"medisight/repositories"
	"medisight/utils"
)

// EHRConnector is one practice-management system the office can sync
// against. Connectors without real credentials serve sandbox data so the
// rest of the pipeline works in development.
type EHRConnector interface {
	Name() string
	Authenticate(ctx context.Context) error
	GetPatientData(ctx context.Context, patientID string) (map[string]interface{}, error)
	CreateAppointment(ctx context.Context, data map[string]interface{}) (map[string]interface{}, error)
}

// EHRService fans requests out to the configured connectors and mirrors
// created appointments into the local appointment table so reminders can
// be scheduled against them.
type EHRService struct {
	connectors   map[string]EHRConnector
	appointments *repositories.AppointmentRepository
}

func NewEHRService(ctx context.Context, appointments *repositories.AppointmentRepository) *EHRService {
	service := &EHRService{
		connectors:   make(map[string]EHRConnector),
		appointments: appointments,
	}
	for _, connector := range []EHRConnector{
		newAthenaHealthConnector(),
		&sandboxConnector{name: "drchrono", status: "sandbox_mode"},
		&sandboxConnector{name: "epic", status: "beta_mode"},
		&sandboxConnector{name: "cerner", status: "planned"},
	} {
		if err := connector.Authenticate(ctx); err != nil {
			log.Printf("EHR connection to %s failed: %v", connector.Name(), err)
			continue
		}
		service.connectors[connector.Name()] = connector
		log.Printf("EHR connection to %s established", connector.Name())
	}
	return service
}

func (s *EHRService) connector(system string) (EHRConnector, error) {
	if system == "" {
		system = "athenahealth"
	}
	connector, ok := s.connectors[strings.ToLower(system)]
	if !ok {
		return nil, errors.Errorf("EHR system %s not available", system)
	}
	return connector, nil
}

// SyncPatient pulls the patient snapshot from the named system.
func (s *EHRService) SyncPatient(ctx context.Context, patientID, system string) (map[string]interface{}, error) {
	connector, err := s.connector(system)
	if err != nil {
		return nil, err
	}
	return connector.GetPatientData(ctx, patientID)
}

// CreateAppointment books the appointment upstream and mirrors it into
// the local table. A mirror failure is logged, not surfaced; the EHR
// remains the system of record.
func (s *EHRService) CreateAppointment(ctx context.Context, system string, data map[string]interface{}) (map[string]interface{}, error) {
	connector, err := s.connector(system)
	if err != nil {
		return nil, err
	}
	created, err := connector.CreateAppointment(ctx, data)
	if err != nil {
		return nil, err
	}
	s.mirrorAppointment(ctx, created, data)
	return created, nil
}

func (s *EHRService) mirrorAppointment(ctx context.Context, created, requested map[string]interface{}) {
	appointmentID, _ := created["appointment_id"].(string)
	if appointmentID == "" {
		return
	}
	appointment := models.Appointment{
		AppointmentID: appointmentID,
		PatientName:   stringField(requested, "patient_name"),
		Provider:      stringField(requested, "provider"),
		Location:      stringField(requested, "location"),
		Phone:         stringField(requested, "patient_phone"),
		Email:         stringField(requested, "patient_email"),
		Status:        "scheduled",
	}
	if raw := stringField(requested, "date_time"); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			appointment.DateTime = parsed
		}
	}
	if err := s.appointments.Create(ctx, &appointment); err != nil {
		log.Printf("Failed to mirror appointment %s locally: %v", appointmentID, err)
	}
}

// SupportedSystems lists the connectors that authenticated at startup.
func (s *EHRService) SupportedSystems() []string {
	systems := make([]string, 0, len(s.connectors))
	for name := range s.connectors {
		systems = append(systems, name)
	}
	return systems
}

// HealthCheck reports whether at least one EHR connection is live.
func (s *EHRService) HealthCheck() string {
	if len(s.connectors) > 0 {
		return "healthy"
	}
	return "unhealthy"
}

func stringField(data map[string]interface{}, key string) string {
	value, _ := data[key].(string)
	return value
}

// athenaHealthConnector speaks the athenahealth v1 API. Without client
// credentials it serves a fixed sandbox patient.
type athenaHealthConnector struct {
	baseURL      string
	clientID     string
	clientSecret string
	practiceID   string
	accessToken  string
	httpClient   *http.Client
}

func newAthenaHealthConnector() *athenaHealthConnector {
	practiceID := os.Getenv("ATHENA_PRACTICE_ID")
	if practiceID == "" {
		practiceID = "195900"
	}
	return &athenaHealthConnector{
		baseURL:      "https://api.athenahealth.com",
		clientID:     os.Getenv("ATHENA_CLIENT_ID"),
		clientSecret: os.Getenv("ATHENA_CLIENT_SECRET"),
		practiceID:   practiceID,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *athenaHealthConnector) Name() string { return "athenahealth" }

func (c *athenaHealthConnector) sandbox() bool { return c.clientID == "" || c.clientSecret == "" }

func (c *athenaHealthConnector) Authenticate(ctx context.Context) error {
	if c.sandbox() {
		c.accessToken = ""
		return nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", "athenahealth/service/Athenahealth.MDP.*")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth2/v1/token", strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "build athenahealth token request")
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "athenahealth token request")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("athenahealth authentication failed: %s", resp.Status)
	}
	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return errors.Wrap(err, "decode athenahealth token")
	}
	c.accessToken = token.AccessToken
	return nil
}

func (c *athenaHealthConnector) GetPatientData(ctx context.Context, patientID string) (map[string]interface{}, error) {
	if c.accessToken == "" {
		return map[string]interface{}{
			"patient_id": patientID,
			"demographics": map[string]interface{}{
				"first_name": "John",
				"last_name":  "Doe",
				"dob":        "1985-06-15",
				"gender":     "M",
				"phone":      "555-0123",
				"email":      "john.doe@email.com",
				"address": map[string]interface{}{
					"street": "123 Main St",
					"city":   "Anytown",
					"state":  "CA",
					"zip":    "90210",
				},
			},
			"insurance": map[string]interface{}{
				"primary": map[string]interface{}{
					"payer_name":    "Blue Cross Blue Shield",
					"policy_number": "123456789",
					"group_number":  "GRP001",
				},
			},
			"last_sync": time.Now().Format(time.RFC3339),
		}, nil
	}

	endpoint := fmt.Sprintf("%s/v1/%s/patients/%s", c.baseURL, c.practiceID, patientID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build athenahealth patient request")
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "athenahealth patient request")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("athenahealth patient lookup failed: %s", resp.Status)
	}
	var payload map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "decode athenahealth patient")
	}
	return payload, nil
}

func (c *athenaHealthConnector) CreateAppointment(ctx context.Context, data map[string]interface{}) (map[string]interface{}, error) {
	if c.accessToken == "" {
		return map[string]interface{}{
			"appointment_id": utils.NewAppointmentID(),
			"status":         "scheduled",
			"created_at":     time.Now().Format(time.RFC3339),
		}, nil
	}

	body, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Wrap(err, "encode athenahealth appointment")
	}
	endpoint := fmt.Sprintf("%s/v1/%s/appointments", c.baseURL, c.practiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(body)))
	if err != nil {
		return nil, errors.Wrap(err, "build athenahealth appointment request")
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "athenahealth appointment request")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return nil, errors.Errorf("athenahealth appointment creation failed: %s", resp.Status)
	}
	var payload map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "decode athenahealth appointment")
	}
	return payload, nil
}

// sandboxConnector covers the systems the practice has not gone live
// with yet. Every call reports its integration status.
type sandboxConnector struct {
	name   string
	status string
}

func (c *sandboxConnector) Name() string { return c.name }

func (c *sandboxConnector) Authenticate(context.Context) error { return nil }

func (c *sandboxConnector) GetPatientData(_ context.Context, patientID string) (map[string]interface{}, error) {
	return map[string]interface{}{
		"source":     c.name,
		"patient_id": patientID,
		"status":     c.status,
	}, nil
}

func (c *sandboxConnector) CreateAppointment(context.Context, map[string]interface{}) (map[string]interface{}, error) {
	return map[string]interface{}{
		"source": c.name,
		"status": c.status,
	}, nil
}
