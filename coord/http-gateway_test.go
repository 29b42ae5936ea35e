package coord_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminara-app/backend/coord"
	"github.com/luminara-app/backend/httpjson"
	"github.com/luminara-app/backend/solve"
)

func TestHTTPGatewaySubmitAndFetch(t *testing.T) {
	ctx := context.Background()
	problemID := uuid.New()
	ownerID := uuid.New()
	created := time.Now().UTC().Truncate(time.Second)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/problems":
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

			p := solve.SubmitParams{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&p))
			assert.Equal(t, "text", p.InputType)
			assert.Equal(t, "T", p.Title)

			httpjson.WriteSuccessJson(w, solve.SubmitResult{
				Success:   true,
				ProblemID: problemID,
				Status:    solve.StatusProcessing,
			})
		case r.Method == http.MethodGet && r.URL.Path == "/problems/"+problemID.String():
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			httpjson.WriteSuccessJson(w, map[string]any{
				"id":                problemID.String(),
				"owner_id":          ownerID.String(),
				"input_type":        "text",
				"title":             "T",
				"status":            "completed",
				"solution":          "The answer is 4.",
				"subject":           "Mathematics",
				"difficulty":        "easy",
				"tags":              []string{"arithmetic"},
				"created_at":        created.Format(time.RFC3339),
				"updated_at":        created.Add(time.Second).Format(time.RFC3339),
				"processing_millis": 1000,
			})
		default:
			httpjson.WriteErrorJson(w, "submission not found",
				http.StatusNotFound, solve.ErrCodeSubmNotFound)
		}
	}))
	defer srv.Close()

	gw := coord.NewHTTPGateway(srv.URL).WithToken("test-token")

	res, err := gw.Submit(ctx, solve.SubmitParams{
		InputType:   "text",
		Title:       "T",
		TextContent: "2+2?",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, problemID, res.ProblemID)
	assert.Equal(t, solve.StatusProcessing, res.Status)

	subm, err := gw.Fetch(ctx, problemID, nil)
	require.NoError(t, err)
	assert.Equal(t, problemID, subm.ID)
	assert.Equal(t, ownerID, subm.OwnerID)
	assert.Equal(t, solve.StatusCompleted, subm.Status)
	assert.Equal(t, "The answer is 4.", subm.Solution)
	assert.Equal(t, "Mathematics", subm.Topic)
	assert.Equal(t, solve.DifficultyEasy, subm.Difficulty)
	assert.Equal(t, []string{"arithmetic"}, subm.Tags)
	assert.True(t, subm.CreatedAt.Equal(created))
	assert.Equal(t, int64(1000), subm.ProcessingMillis)
}

func TestHTTPGatewayRebuildsErrorEnvelopes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpjson.WriteErrorJson(w, "submission not found",
			http.StatusNotFound, solve.ErrCodeSubmNotFound)
	}))
	defer srv.Close()

	gw := coord.NewHTTPGateway(srv.URL)
	_, err := gw.Fetch(context.Background(), uuid.New(), nil)
	assertErrCode(t, err, solve.ErrCodeSubmNotFound)
}

func TestHTTPGatewayWorksAsCoordinatorBackend(t *testing.T) {
	ctx := context.Background()
	problemID := uuid.New()
	var polls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/problems":
			httpjson.WriteSuccessJson(w, solve.SubmitResult{
				Success:   true,
				ProblemID: problemID,
				Status:    solve.StatusProcessing,
			})
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/problems/"):
			status := "processing"
			solution := ""
			if polls.Add(1) >= 2 {
				status = "completed"
				solution = "The answer is 4."
			}
			now := time.Now().UTC().Format(time.RFC3339)
			httpjson.WriteSuccessJson(w, map[string]any{
				"id":         problemID.String(),
				"owner_id":   uuid.New().String(),
				"input_type": "text",
				"title":      "T",
				"status":     status,
				"solution":   solution,
				"created_at": now,
				"updated_at": now,
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	gw := coord.NewHTTPGateway(srv.URL)
	c := coord.New(gw.Submit, gw.Fetch).WithPolling(5*time.Millisecond, 60)
	defer c.Close()

	res, err := c.Submit(ctx, solve.SubmitParams{
		InputType:   "text",
		Title:       "T",
		TextContent: "2+2?",
	})
	require.NoError(t, err)
	assert.Equal(t, solve.StatusProcessing, res.Status)

	final, err := c.Wait(ctx)
	require.NoError(t, err)
	require.NotNil(t, final)
	assert.Equal(t, solve.StatusCompleted, final.Status)
	assert.Equal(t, "The answer is 4.", final.Solution)
}
