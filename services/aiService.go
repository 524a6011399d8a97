package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"medisight/models"
)

const claimAnalysisPrompt = `You are a medical billing analyst. Given the claim below,
estimate the likelihood of first-pass approval and list risk factors and
recommendations. Respond with a JSON object with the fields
"approval_likelihood" (integer 0-100), "risk_factors" (array of strings)
and "recommendations" (array of strings).

Claim:
%s`

// AIService answers practice questions and pre-screens claims before
// submission. Without an OPENAI_API_KEY it falls back to a deterministic
// heuristic so the rest of the pipeline stays usable offline.
type AIService struct {
	client *openai.Client
	model  string
}

func NewAIService() *AIService {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		log.Println("OPENAI_API_KEY not set, AI service running in heuristic mode")
		return &AIService{}
	}
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = openai.GPT4oMini
	}
	return &AIService{client: openai.NewClient(key), model: model}
}

// Query answers a free-form question about practice operations.
func (s *AIService) Query(ctx context.Context, query string, queryContext map[string]interface{}) (models.AIResponse, error) {
	if s.client == nil {
		return models.AIResponse{
			Answer:  "AI assistance is not configured. Please consult the practice operations manual.",
			Sources: []string{"practice_operations_manual"},
		}, nil
	}

	prompt := query
	if len(queryContext) > 0 {
		extra, err := json.Marshal(queryContext)
		if err == nil {
			prompt = fmt.Sprintf("%s\n\nContext:\n%s", query, extra)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are an assistant for a medical practice back office. Answer concisely."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return models.AIResponse{}, err
	}
	if len(resp.Choices) == 0 {
		return models.AIResponse{Answer: "No answer available."}, nil
	}
	return models.AIResponse{
		Answer:  resp.Choices[0].Message.Content,
		Sources: []string{"llm"},
	}, nil
}

// AnalyzeClaim scores a claim for approval likelihood. Model output that
// cannot be parsed falls back to the heuristic rather than failing the
// submission.
func (s *AIService) AnalyzeClaim(ctx context.Context, data models.ClaimData) models.ClaimAnalysis {
	if s.client == nil {
		return heuristicAnalysis(data)
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return heuristicAnalysis(data)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(claimAnalysisPrompt, payload)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil || len(resp.Choices) == 0 {
		log.Printf("Claim analysis model call failed, using heuristic: %v", err)
		return heuristicAnalysis(data)
	}

	var analysis struct {
		ApprovalLikelihood int      `json:"approval_likelihood"`
		RiskFactors        []string `json:"risk_factors"`
		Recommendations    []string `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &analysis); err != nil {
		log.Printf("Claim analysis response not parseable, using heuristic: %v", err)
		return heuristicAnalysis(data)
	}
	if analysis.ApprovalLikelihood < 0 {
		analysis.ApprovalLikelihood = 0
	}
	if analysis.ApprovalLikelihood > 100 {
		analysis.ApprovalLikelihood = 100
	}
	return models.ClaimAnalysis{
		ApprovalLikelihood: analysis.ApprovalLikelihood,
		RiskFactors:        analysis.RiskFactors,
		Recommendations:    analysis.Recommendations,
	}
}

// heuristicAnalysis scores a claim from its shape alone: missing codes
// and high charges are the two denial drivers the billing team sees most.
func heuristicAnalysis(data models.ClaimData) models.ClaimAnalysis {
	likelihood := 85
	var risks, recs []string

	if len(data.ProcedureCodes) == 0 {
		likelihood -= 40
		risks = append(risks, "No procedure codes supplied")
		recs = append(recs, "Add CPT procedure codes before submission")
	}
	if len(data.DiagnosisCodes) == 0 {
		likelihood -= 30
		risks = append(risks, "No diagnosis codes supplied")
		recs = append(recs, "Add ICD-10 diagnosis codes supporting medical necessity")
	}
	if data.ChargeAmount > 1000 {
		likelihood -= 10
		risks = append(risks, "High charge amount may trigger manual review")
		recs = append(recs, "Attach supporting documentation for charges over $1,000")
	}
	if strings.TrimSpace(data.PatientID) == "" {
		likelihood -= 15
		risks = append(risks, "Missing patient identifier")
	}
	if likelihood < 5 {
		likelihood = 5
	}
	if len(recs) == 0 {
		recs = append(recs, "Claim is well-formed, submit as-is")
	}
	return models.ClaimAnalysis{
		ApprovalLikelihood: likelihood,
		RiskFactors:        risks,
		Recommendations:    recs,
	}
}
