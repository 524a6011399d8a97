package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"medisight/models"
)

func TestConvertToX12(t *testing.T) {
	payload := ConvertToX12("CLM-1", models.ClaimData{
		PatientID:      "PAT-1001",
		ProcedureCodes: []string{"D0120", "D1110"},
		DiagnosisCodes: []string{"K02.9", "K04.7"},
		ServiceDate:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		ChargeAmount:   600,
	})

	lines := strings.Split(payload, "\n")
	require.True(t, strings.HasPrefix(lines[0], "ISA*"))
	require.True(t, strings.HasSuffix(lines[len(lines)-1], "IEA*1*123456789~"))
	require.Contains(t, payload, "ST*837*CLM-1*005010X222A1~")
	require.Contains(t, payload, "CLM*CLM-1*600.00")
	require.Contains(t, payload, "HI*ABK:K02.9*ABF:K04.7~")
	require.Contains(t, payload, "SV1*HC:D0120:D1110*600.00*UN*1~")
}

func TestAvailitySandboxAcknowledgesLocally(t *testing.T) {
	client := &AvailityClient{}

	ack, err := client.SubmitClaim(context.Background(), "CLM-1", "payload")
	require.NoError(t, err)
	require.Equal(t, "CH-CLM-1", ack)
}
