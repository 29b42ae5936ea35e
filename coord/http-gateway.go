package coord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/luminara-app/backend/solve"
	"github.com/luminara-app/backend/srvcerr"
)

// HTTPGateway implements SubmitFunc and FetchFunc against the HTTP API.
// Error envelopes are rebuilt into srvcerr errors so callers see the
// same codes over the wire as in process.
type HTTPGateway struct {
	base   string
	token  string
	client *http.Client
}

func NewHTTPGateway(base string) *HTTPGateway {
	return &HTTPGateway{
		base:   base,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithToken sets the bearer token attached to every request.
func (g *HTTPGateway) WithToken(token string) *HTTPGateway {
	g.token = token
	return g
}

func (g *HTTPGateway) Submit(ctx context.Context, p solve.SubmitParams) (*solve.SubmitResult, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal submission request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.base+"/problems", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res := &solve.SubmitResult{}
	if err := g.do(req, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Fetch reads one submission. The owner argument is ignored: over HTTP
// the read is scoped by the bearer token on the server side.
func (g *HTTPGateway) Fetch(ctx context.Context, id uuid.UUID, owner *uuid.UUID) (*solve.Submission, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/problems/%s", g.base, id), nil)
	if err != nil {
		return nil, err
	}

	view := submView{}
	if err := g.do(req, &view); err != nil {
		return nil, err
	}
	return view.toSubm()
}

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data,omitempty"`
	ErrCode string          `json:"code,omitempty"`
	ErrMsg  string          `json:"message,omitempty"`
}

func (g *HTTPGateway) do(req *http.Request, data any) error {
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	env := envelope{}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", req.URL.Path, err)
	}
	if env.Status != "success" {
		return srvcerr.New(env.ErrCode, env.ErrMsg).SetHttpStatusCode(resp.StatusCode)
	}
	if data == nil || env.Data == nil {
		return nil
	}
	return json.Unmarshal(env.Data, data)
}

// submView mirrors the submission JSON the API serves.
type submView struct {
	ID               string   `json:"id"`
	OwnerID          string   `json:"owner_id"`
	InputType        string   `json:"input_type"`
	Title            string   `json:"title"`
	Description      string   `json:"description,omitempty"`
	TextContent      string   `json:"text_content,omitempty"`
	ImageUrl         string   `json:"image_url,omitempty"`
	VoiceUrl         string   `json:"voice_url,omitempty"`
	Status           string   `json:"status"`
	Solution         string   `json:"solution,omitempty"`
	Subject          string   `json:"subject,omitempty"`
	Difficulty       string   `json:"difficulty,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	ErrorMessage     string   `json:"error_message,omitempty"`
	CreatedAt        string   `json:"created_at"`
	UpdatedAt        string   `json:"updated_at"`
	ProcessingMillis int64    `json:"processing_millis"`
}

func (v submView) toSubm() (*solve.Submission, error) {
	id, err := uuid.Parse(v.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse submission id %q: %w", v.ID, err)
	}
	ownerID, err := uuid.Parse(v.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse owner id %q: %w", v.OwnerID, err)
	}
	createdAt, err := time.Parse(time.RFC3339, v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at %q: %w", v.CreatedAt, err)
	}
	updatedAt, err := time.Parse(time.RFC3339, v.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at %q: %w", v.UpdatedAt, err)
	}
	return &solve.Submission{
		ID:               id,
		OwnerID:          ownerID,
		InputType:        solve.InputType(v.InputType),
		Title:            v.Title,
		Description:      v.Description,
		TextContent:      v.TextContent,
		ImageUrl:         v.ImageUrl,
		VoiceUrl:         v.VoiceUrl,
		Status:           solve.Status(v.Status),
		Solution:         v.Solution,
		Topic:            v.Subject,
		Difficulty:       solve.Difficulty(v.Difficulty),
		Tags:             v.Tags,
		ErrorMessage:     v.ErrorMessage,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
		ProcessingMillis: v.ProcessingMillis,
	}, nil
}
