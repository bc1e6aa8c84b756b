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

// OllamaProvider implements Provider against a local Ollama instance
// (e.g. nomic-embed-text for embeddings, llama3 for generation).
type OllamaProvider struct {
	BaseURL        string
	EmbeddingModel string
	ChatModel      string
	Client         *http.Client
}

var _ Provider = &OllamaProvider{}

func NewOllamaProvider(baseURL, embeddingModel, chatModel string) *OllamaProvider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if embeddingModel == "" {
		embeddingModel = "nomic-embed-text"
	}
	if chatModel == "" {
		chatModel = "llama3"
	}
	return &OllamaProvider{
		BaseURL:        baseURL,
		EmbeddingModel: embeddingModel,
		ChatModel:      chatModel,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (p *OllamaProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	payload := ollamaEmbedRequest{
		Model:  p.EmbeddingModel,
		Prompt: text,
	}

	body, err := p.post(ctx, p.BaseURL+"/api/embeddings", payload)
	if err != nil {
		return nil, err
	}

	var res ollamaEmbedResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(res.Embedding) == 0 {
		return nil, fmt.Errorf("ollama returned empty embedding")
	}
	return res.Embedding, nil
}

func (p *OllamaProvider) Generate(ctx context.Context, prompt string) (string, error) {
	payload := ollamaGenerateRequest{
		Model:  p.ChatModel,
		Prompt: prompt,
		Stream: false,
	}

	body, err := p.post(ctx, p.BaseURL+"/api/generate", payload)
	if err != nil {
		return "", err
	}

	var res ollamaGenerateResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	return res.Response, nil
}

func (p *OllamaProvider) Analyze(ctx context.Context, title, content string) (*Analysis, error) {
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

func (p *OllamaProvider) post(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error from ollama response, code %d, body %s", res.StatusCode, string(body))
	}
	return body, nil
}
