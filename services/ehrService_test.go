package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newSandboxEHRService() *EHRService {
	service := &EHRService{connectors: make(map[string]EHRConnector)}
	for _, connector := range []EHRConnector{
		newAthenaHealthConnector(),
		&sandboxConnector{name: "drchrono", status: "sandbox_mode"},
	} {
		service.connectors[connector.Name()] = connector
	}
	return service
}

func TestSyncPatientDefaultsToAthenahealth(t *testing.T) {
	service := newSandboxEHRService()

	snapshot, err := service.SyncPatient(context.Background(), "PAT-1001", "")
	require.NoError(t, err)
	require.Equal(t, "PAT-1001", snapshot["patient_id"])
	require.Contains(t, snapshot, "demographics")
}

func TestSyncPatientUnknownSystem(t *testing.T) {
	service := newSandboxEHRService()

	_, err := service.SyncPatient(context.Background(), "PAT-1001", "epic")
	require.Error(t, err)
}

func TestSandboxConnectorReportsStatus(t *testing.T) {
	service := newSandboxEHRService()

	snapshot, err := service.SyncPatient(context.Background(), "PAT-1001", "drchrono")
	require.NoError(t, err)
	require.Equal(t, "sandbox_mode", snapshot["status"])
}

func TestHealthCheck(t *testing.T) {
	require.Equal(t, "healthy", newSandboxEHRService().HealthCheck())
	require.Equal(t, "unhealthy", (&EHRService{connectors: map[string]EHRConnector{}}).HealthCheck())
}
