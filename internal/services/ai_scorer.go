package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kkurosawa/ssbj-readiness-backend/internal/catalog"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/logger"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/utils"
)

// maxDocumentChars bounds the document text sent per scoring request.
// Longer documents keep the head and tail halves and drop the middle.
const maxDocumentChars = 24000

type AIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AIOptions struct {
	Temperature float32
	MaxTokens   int
}

type AICompletion struct {
	Content string
}

type AIClient interface {
	Chat(ctx context.Context, messages []AIMessage, opts *AIOptions) (*AICompletion, error)
}

type aiClient struct {
	httpClient *http.Client
	log        *logger.Logger
	apiKey     string
	baseURL    string
	chatModel  string
}

func NewAIClient(log *logger.Logger) (AIClient, error) {
	serviceLog := log.With("service", "AIClient")
	apiKey := utils.GetEnv("OPENAI_API_KEY", "", log)
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	baseURL := utils.GetEnv("OPENAI_BASE_URL", "https://api.openai.com/v1", log)
	chatModel := utils.GetEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini", log)
	return &aiClient{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		log:       serviceLog,
		apiKey:    apiKey,
		baseURL:   baseURL,
		chatModel: chatModel,
	}, nil
}

type chatRequest struct {
	Model       string      `json:"model"`
	Messages    []AIMessage `json:"messages"`
	Temperature float32     `json:"temperature,omitempty"`
	MaxTokens   int         `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *aiClient) Chat(ctx context.Context, messages []AIMessage, opts *AIOptions) (*AICompletion, error) {
	reqBody := chatRequest{
		Model:    c.chatModel,
		Messages: messages,
	}
	if opts != nil {
		reqBody.Temperature = opts.Temperature
		reqBody.MaxTokens = opts.MaxTokens
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("Failed to marshal chat request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("Failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Chat request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("Failed to read chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Chat request returned status %d: %s", resp.StatusCode, string(body))
	}
	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("Failed to parse chat response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("Chat API error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("Chat response contained no choices")
	}
	return &AICompletion{Content: parsed.Choices[0].Message.Content}, nil
}

// AIScorerService scores criteria by sending document evidence to a chat
// model. Every failure surfaces as an error; there is no silent fallback to
// a default score.
type AIScorerService interface {
	ScoreCriterion(ctx context.Context, criterionID, documentText string) (*AutoScore, error)
	ScoreAll(ctx context.Context, documentText string) ([]AutoScore, error)
}

type aiScorerService struct {
	log    *logger.Logger
	client AIClient
	cat    *catalog.Catalog
}

func NewAIScorerService(log *logger.Logger, client AIClient, cat *catalog.Catalog) AIScorerService {
	serviceLog := log.With("service", "AIScorerService")
	return &aiScorerService{log: serviceLog, client: client, cat: cat}
}

// PrepareDocumentText bounds text at limit characters. Oversized input
// keeps the first and last limit/2 characters with a marker between, so
// the same input always produces the same prepared text. Cuts land on rune
// boundaries so multibyte text stays valid UTF-8.
func PrepareDocumentText(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	half := limit / 2
	runes := []rune(text)
	return string(runes[:half]) + "\n...[truncated]...\n" + string(runes[len(runes)-half:])
}

type aiScorePayload struct {
	Score    int    `json:"score"`
	Evidence string `json:"evidence"`
	Notes    string `json:"notes"`
}

func (s *aiScorerService) ScoreCriterion(ctx context.Context, criterionID, documentText string) (*AutoScore, error) {
	crit := s.cat.ByID(criterionID)
	if crit == nil {
		return nil, fmt.Errorf("unknown criterion %q", criterionID)
	}

	prepared := PrepareDocumentText(documentText, maxDocumentChars)
	systemPrompt := "You are a sustainability-disclosure readiness assessor. " +
		"Score the organization's maturity for the given criterion on a 0-5 scale " +
		"using the provided documents. Respond with JSON only: " +
		`{"score": <0-5>, "evidence": "<supporting passages>", "notes": "<reasoning>"}`
	userPrompt := fmt.Sprintf("Criterion %s (%s / %s)\nRequirement: %s\nGuidance: %s\n\nDocuments:\n%s",
		crit.ID, crit.Pillar, crit.Category, crit.Requirement, crit.Guidance, prepared)

	completion, err := s.client.Chat(ctx, []AIMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}, &AIOptions{Temperature: 0, MaxTokens: 800})
	if err != nil {
		return nil, fmt.Errorf("Failed to score criterion %s: %w", criterionID, err)
	}

	var payload aiScorePayload
	content := strings.TrimSpace(completion.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &payload); err != nil {
		return nil, fmt.Errorf("Failed to parse model response for %s: %w", criterionID, err)
	}
	score := min(max(payload.Score, 0), 5)

	return &AutoScore{
		CriterionID: criterionID,
		Score:       score,
		Evidence:    "[AI-assessed] " + payload.Evidence,
		Notes:       "[AI-assessed] " + payload.Notes,
	}, nil
}

func (s *aiScorerService) ScoreAll(ctx context.Context, documentText string) ([]AutoScore, error) {
	criteria := s.cat.Criteria()
	out := make([]AutoScore, 0, len(criteria))
	for _, c := range criteria {
		scored, err := s.ScoreCriterion(ctx, c.ID, documentText)
		if err != nil {
			return nil, err
		}
		out = append(out, *scored)
	}
	return out, nil
}
