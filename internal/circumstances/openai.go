package circumstances

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const classifierSystemPrompt = `You are an aviation passenger-rights analyst.
Decide whether the given flight disruption reason qualifies as "extraordinary
circumstances" under EU Regulation 261/2004 (weather, security risks, strikes
by third parties, air traffic control restrictions, bird strikes, medical
emergencies). Technical faults and crew scheduling are NOT extraordinary.
Respond with only a JSON object:
{"isExtraordinary": <bool>, "confidence": <0-100>, "category": "<string>", "explanation": "<string>"}`

// OpenAIAnalyzer implements Analyzer using the OpenAI chat completions API.
type OpenAIAnalyzer struct {
	client openai.Client
	model  string
}

// NewOpenAIAnalyzer creates an LLM-backed analyzer.
func NewOpenAIAnalyzer(apiKey, model string) *OpenAIAnalyzer {
	if model == "" {
		model = string(openai.ChatModelGPT4oMini)
	}
	return &OpenAIAnalyzer{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Analyze asks the model to classify the disruption reason. Any transport,
// API, or parse failure is returned as an error so the caller falls back to
// the keyword path.
func (a *OpenAIAnalyzer) Analyze(ctx context.Context, reason string) (*Assessment, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(classifierSystemPrompt),
			openai.UserMessage(reason),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var verdict struct {
		IsExtraordinary bool    `json:"isExtraordinary"`
		Confidence      float64 `json:"confidence"`
		Category        string  `json:"category"`
		Explanation     string  `json:"explanation"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &verdict); err != nil {
		return nil, fmt.Errorf("failed to parse classifier response: %w", err)
	}

	return &Assessment{
		IsExtraordinary: verdict.IsExtraordinary,
		Confidence:      verdict.Confidence,
		Category:        verdict.Category,
		Explanation:     verdict.Explanation,
	}, nil
}
