package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderTemplate(t *testing.T) {
	message := RenderTemplate("Hi {patient_name}, you owe ${amount}.", map[string]interface{}{
		"patient_name": "John Doe",
		"amount":       "150.00",
	})
	require.Equal(t, "Hi John Doe, you owe $150.00.", message)
}

func TestRenderTemplateLeavesUnresolvedPlaceholders(t *testing.T) {
	message := RenderTemplate("Call {phone} about {invoice_id}.", map[string]interface{}{
		"phone": "(555) 123-4567",
	})
	require.Equal(t, "Call (555) 123-4567 about {invoice_id}.", message)
}

func TestRenderTemplateNonStringValues(t *testing.T) {
	message := RenderTemplate("{days_overdue} days overdue", map[string]interface{}{
		"days_overdue": 35,
	})
	require.Equal(t, "35 days overdue", message)
}

func TestMergeDataLaterMapsWin(t *testing.T) {
	merged := MergeData(
		map[string]interface{}{"a": 1, "b": 2},
		map[string]interface{}{"b": 3, "c": 4},
	)
	require.Equal(t, 1, merged["a"])
	require.Equal(t, 3, merged["b"])
	require.Equal(t, 4, merged["c"])
}
