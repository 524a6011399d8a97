package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"medisight/models"
)

// ClearinghouseClient routes claims to payers. The wire payload is an
// X12 837 document; its exact segment structure is the clearinghouse's
// contract, not ours.
type ClearinghouseClient interface {
	Name() string
	SubmitClaim(ctx context.Context, claimID, payload string) (string, error)
}

// AvailityClient submits claims to the Availity clearinghouse. Without
// credentials it runs in sandbox mode and acknowledges locally.
type AvailityClient struct {
	baseURL  string
	clientID string
	secret   string
	http     *http.Client
}

func NewAvailityClient() *AvailityClient {
	return &AvailityClient{
		baseURL:  "https://api.availity.com",
		clientID: os.Getenv("AVAILITY_CLIENT_ID"),
		secret:   os.Getenv("AVAILITY_CLIENT_SECRET"),
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *AvailityClient) Name() string {
	return "availity"
}

// SubmitClaim sends the X12 payload. Sandbox mode acknowledges without a
// network round trip.
func (c *AvailityClient) SubmitClaim(ctx context.Context, claimID, payload string) (string, error) {
	if c.clientID == "" || c.secret == "" {
		log.Printf("Submitting claim %s to clearinghouse (sandbox)", claimID)
		return "CH-" + claimID, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/claims/v1/submissions", strings.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build clearinghouse request: %w", err)
	}
	req.Header.Set("Content-Type", "application/edi-x12")
	req.SetBasicAuth(c.clientID, c.secret)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("clearinghouse submission failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("clearinghouse rejected claim %s: status %d", claimID, resp.StatusCode)
	}
	return "CH-" + claimID, nil
}

// ConvertToX12 renders the claim as a simplified X12 837 professional
// claim. Segment detail beyond the envelope is the payer contract's
// problem; this keeps enough structure for sandbox routing.
func ConvertToX12(claimID string, data models.ClaimData) string {
	now := time.Now()
	segments := []string{
		fmt.Sprintf("ISA*00*          *00*          *ZZ*SENDER         *ZZ*RECEIVER       *%s*%s*^*00501*123456789*0*P*:~",
			now.Format("060102"), now.Format("1504")),
		fmt.Sprintf("GS*HC*SENDER*RECEIVER*%s*%s*1*X*005010X222A1~", now.Format("20060102"), now.Format("1504")),
		fmt.Sprintf("ST*837*%s*005010X222A1~", claimID),
		fmt.Sprintf("CLM*%s*%.2f***11:B:1*Y*A*Y*Y~", claimID, data.ChargeAmount),
		fmt.Sprintf("HI*ABK:%s~", strings.Join(data.DiagnosisCodes, "*ABF:")),
		fmt.Sprintf("SV1*HC:%s*%.2f*UN*1~", strings.Join(data.ProcedureCodes, ":"), data.ChargeAmount),
		"SE*10*001~",
		"GE*1*1~",
		"IEA*1*123456789~",
	}
	return strings.Join(segments, "\n")
}
