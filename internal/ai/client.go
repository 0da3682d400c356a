// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai provides a client for the Google Gemini REST API
// (POST /v1beta/models/{model}:generateContent). It supports plain text
// generation, web-search-grounded generation with citation extraction,
// JSON-schema-constrained output, and native image generation.
package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"superpage/internal/models"
)

// defaultSourceTitle is used when the model omits a title for a grounding
// citation.
const defaultSourceTitle = "Verified Source"

// Config holds the credentials and model names for the Gemini API.
type Config struct {
	APIKey  string
	BaseURL string
}

// Factory builds a fresh Client per request. Clients are deliberately not
// cached: constructing one is cheap and a new client always sees the
// current credential, so a rotated key takes effect on the next call.
type Factory struct {
	config Config
}

// NewFactory creates a client factory for the given configuration.
func NewFactory(cfg Config) *Factory {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	return &Factory{config: cfg}
}

// Client returns a new Client. Call it once per logical request.
func (f *Factory) Client() *Client {
	return &Client{
		config: f.config,
		http:   &http.Client{Timeout: 120 * time.Second},
	}
}

// Client performs generateContent calls against one model endpoint.
type Client struct {
	config Config
	http   *http.Client
}

// GroundedResult is the outcome of a web-search-grounded generation call:
// the raw response text plus the citations the model consulted, in the
// order the API returned them.
type GroundedResult struct {
	Text    string
	Sources []models.Source
}

// Generate sends a plain generateContent request and returns the first
// text part of the first candidate.
func (c *Client) Generate(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.generateContent(ctx, model, geminiRequest{
		SystemInstruction: systemContent(systemPrompt),
		Contents:          userContents(userPrompt),
	})
	if err != nil {
		return "", err
	}
	return firstText(resp)
}

// GenerateGrounded sends a generateContent request with the Google Search
// tool enabled so the model can consult live web results. Grounding
// citations are extracted from the response metadata; entries without a
// web reference are skipped and missing titles default to a fixed
// placeholder.
func (c *Client) GenerateGrounded(ctx context.Context, model, systemPrompt, userPrompt string) (*GroundedResult, error) {
	resp, err := c.generateContent(ctx, model, geminiRequest{
		SystemInstruction: systemContent(systemPrompt),
		Contents:          userContents(userPrompt),
		Tools:             []geminiTool{{GoogleSearch: &struct{}{}}},
	})
	if err != nil {
		return nil, err
	}

	text, err := firstText(resp)
	if err != nil {
		return nil, err
	}

	var sources []models.Source
	if len(resp.Candidates) > 0 && resp.Candidates[0].GroundingMetadata != nil {
		for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
			if chunk.Web == nil {
				continue
			}
			title := chunk.Web.Title
			if title == "" {
				title = defaultSourceTitle
			}
			sources = append(sources, models.Source{Title: title, URI: chunk.Web.URI})
		}
	}

	return &GroundedResult{Text: text, Sources: sources}, nil
}

// GenerateJSON sends a generateContent request that constrains the output
// to the given response schema with a JSON MIME type. The returned string
// is the raw response text; parsing it is the caller's fallible boundary.
func (c *Client) GenerateJSON(ctx context.Context, model, systemPrompt, userPrompt string, schema *Schema) (string, error) {
	resp, err := c.generateContent(ctx, model, geminiRequest{
		SystemInstruction: systemContent(systemPrompt),
		Contents:          userContents(userPrompt),
		GenerationConfig: &geminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   schema,
		},
	})
	if err != nil {
		return "", err
	}
	return firstText(resp)
}

// GenerateImage creates an image via generateContent with image response
// modalities. Returns the decoded image bytes and the MIME content type.
func (c *Client) GenerateImage(ctx context.Context, model, prompt string) ([]byte, string, error) {
	resp, err := c.generateContent(ctx, model, geminiRequest{
		Contents: userContents("Generate an image of: " + prompt),
		GenerationConfig: &geminiGenerationConfig{
			ResponseModalities: []string{"IMAGE", "TEXT"},
		},
	})
	if err != nil {
		return nil, "", err
	}

	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			imgBytes, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, "", fmt.Errorf("gemini image decode base64: %w", err)
			}
			contentType := part.InlineData.MimeType
			if contentType == "" {
				contentType = "image/png"
			}
			return imgBytes, contentType, nil
		}
	}

	return nil, "", fmt.Errorf("gemini image: no image data in response")
}

// generateContent performs one round trip to the generateContent endpoint.
func (c *Client) generateContent(ctx context.Context, model string, body geminiRequest) (*geminiResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("gemini marshal: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.config.BaseURL, model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.config.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gemini read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result geminiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("gemini unmarshal: %w", err)
	}

	return &result, nil
}

// firstText extracts the first non-empty text part of the first candidate.
func firstText(resp *geminiResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini: no candidates returned")
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			return part.Text, nil
		}
	}
	return "", fmt.Errorf("gemini: no text in response")
}

func systemContent(prompt string) *geminiContent {
	if prompt == "" {
		return nil
	}
	return &geminiContent{Parts: []geminiPart{{Text: prompt}}}
}

func userContents(prompt string) []geminiContent {
	return []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}
}

// --- Gemini API types ---

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiTool struct {
	GoogleSearch *struct{} `json:"googleSearch,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseMimeType   string   `json:"responseMimeType,omitempty"`
	ResponseSchema     *Schema  `json:"responseSchema,omitempty"`
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent          `json:"system_instruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	Tools             []geminiTool            `json:"tools,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiWebChunk struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

type geminiGroundingChunk struct {
	Web *geminiWebChunk `json:"web,omitempty"`
}

type geminiGroundingMetadata struct {
	GroundingChunks []geminiGroundingChunk `json:"groundingChunks"`
}

type geminiCandidate struct {
	Content           geminiContent            `json:"content"`
	GroundingMetadata *geminiGroundingMetadata `json:"groundingMetadata,omitempty"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}
