package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type GeminiProvider struct {
	ApiKey         string
	EmbeddingModel string
	ChatModel      string
	Client         *http.Client
}

// Ensure GeminiProvider implements Provider
var _ Provider = &GeminiProvider{}

func NewGeminiProvider(apiKey, embeddingModel, chatModel string) *GeminiProvider {
	if embeddingModel == "" {
		embeddingModel = "text-embedding-004"
	}
	if chatModel == "" {
		chatModel = "gemini-1.5-flash"
	}
	return &GeminiProvider{
		ApiKey:         apiKey,
		EmbeddingModel: embeddingModel,
		ChatModel:      chatModel,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type geminiContentPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiContentPart `json:"parts"`
}

type geminiEmbedRequest struct {
	Model   string        `json:"model"`
	Content geminiContent `json:"content"`
}

type geminiEmbedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

type geminiGenerateRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// --- Interface Implementation ---

func (p *GeminiProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	payload := geminiEmbedRequest{
		Model: "models/" + p.EmbeddingModel,
		Content: geminiContent{
			Parts: []geminiContentPart{{Text: text}},
		},
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1/models/%s:embedContent",
		p.EmbeddingModel,
	)

	body, err := p.post(ctx, endpoint, payload)
	if err != nil {
		return nil, err
	}

	var res geminiEmbedResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("gemini returned empty embedding")
	}
	return res.Embedding.Values, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	payload := geminiGenerateRequest{
		Contents: []geminiContent{
			{Parts: []geminiContentPart{{Text: prompt}}},
		},
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1/models/%s:generateContent",
		p.ChatModel,
	)

	body, err := p.post(ctx, endpoint, payload)
	if err != nil {
		return "", err
	}

	var res geminiGenerateResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	return res.Candidates[0].Content.Parts[0].Text, nil
}

func (p *GeminiProvider) Analyze(ctx context.Context, title, content string) (*Analysis, error) {
	prompt := fmt.Sprintf(analysisPromptTemplate, title, content)
	raw, err := p.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	analysis, err := parseAnalysis(raw)
	if err != nil {
		return nil, fmt.Errorf("parse analysis: %w", err)
	}
	return analysis, nil
}

func (p *GeminiProvider) post(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error from gemini response, code %d, body %s", res.StatusCode, string(body))
	}
	return body, nil
}
