package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// GenParams are the generation parameters sent with every completion
// request. They are fixed per client so all submissions are solved under
// the same settings.
type GenParams struct {
	Temperature     float64 `toml:"temperature"`
	TopP            float64 `toml:"top_p"`
	TopK            int     `toml:"top_k"`
	MaxOutputTokens int     `toml:"max_output_tokens"`
}

func DefaultGenParams() GenParams {
	return GenParams{
		Temperature:     0.7,
		TopP:            0.95,
		TopK:            40,
		MaxOutputTokens: 2048,
	}
}

// CompletionReq is one completion request. ImageB64 optionally attaches an
// image as raw base64 (no data: prefix) with its MIME type.
type CompletionReq struct {
	Prompt    string
	ImageB64  string
	ImageMIME string
}

// Client calls a Gemini style generateContent endpoint over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	params     GenParams
	httpClient *http.Client
}

// New creates a Client for the given endpoint and model.
func New(baseURL, apiKey, model string, params GenParams) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		params:  params,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// generateRequest is the JSON body for POST models/{model}:generateContent.
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (r *generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// Complete sends one completion request and returns the model's text.
// Exactly one attempt is made; whether a retry is safe depends on what the
// caller has already persisted, so retry policy stays with the caller.
func (c *Client) Complete(ctx context.Context, req CompletionReq) (string, error) {
	parts := []part{{Text: req.Prompt}}
	if req.ImageB64 != "" {
		mimeType := req.ImageMIME
		if mimeType == "" {
			mimeType = "image/jpeg"
		}
		parts = append(parts, part{InlineData: &inlineData{
			MimeType: mimeType,
			Data:     req.ImageB64,
		}})
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: parts}},
		GenerationConfig: generationConfig{
			Temperature:     c.params.Temperature,
			TopP:            c.params.TopP,
			TopK:            c.params.TopK,
			MaxOutputTokens: c.params.MaxOutputTokens,
		},
	})
	if err != nil {
		return "", newErrProviderUnavailable().SetDebug(
			fmt.Errorf("marshaling completion request: %w", err))
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", newErrProviderUnavailable().SetDebug(
			fmt.Errorf("creating completion request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", newErrProviderUnavailable().SetDebug(
			fmt.Errorf("completion request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", newErrProviderUnavailable().SetDebug(fmt.Errorf(
			"completion: unexpected status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(raw))))
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", newErrProviderUnavailable().SetDebug(
			fmt.Errorf("decoding completion response: %w", err))
	}

	text := result.text()
	if text == "" {
		return "", newErrProviderUnavailable().SetDebug(
			errors.New("completion: response carried no candidate text"))
	}
	return text, nil
}
