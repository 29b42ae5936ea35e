package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminara-app/backend/genai"
	backendhttp "github.com/luminara-app/backend/http"
	"github.com/luminara-app/backend/ident"
	"github.com/luminara-app/backend/media"
	mediahttp "github.com/luminara-app/backend/media/http"
	"github.com/luminara-app/backend/owner"
	ownerhttp "github.com/luminara-app/backend/owner/http"
	"github.com/luminara-app/backend/ratecount"
	"github.com/luminara-app/backend/secgate"
	"github.com/luminara-app/backend/session"
	sessionhttp "github.com/luminara-app/backend/session/http"
	"github.com/luminara-app/backend/solve"
	solvehttp "github.com/luminara-app/backend/solve/http"
)

var testJwtKey = []byte("test")

// aiStub answers instantly with Subject/Difficulty/Tags lines so the
// whole submit pipeline runs terminal inside a single request.
type aiStub struct{}

func (aiStub) Complete(ctx context.Context, req genai.CompletionReq) (string, error) {
	return "The slope of the line is 2.\nSubject: algebra\nDifficulty: easy\nTags: slope, lines", nil
}

type blobStub struct{}

func (blobStub) Upload(content []byte, key string, mediaType string) (string, error) {
	return "https://media.test.local/" + key, nil
}

func (blobStub) Delete(key string) error { return nil }

func setupRouter(t *testing.T) http.Handler {
	t.Helper()

	gateway := secgate.NewGateway(ratecount.NewMemStore(), secgate.NewInMemAuditRepo(), secgate.ObfuscationCipher{})
	sessionMgr := session.NewManager(session.NewInMemSessionRepo(), gateway)
	ownerSrvc := owner.NewOwnerSrvc(owner.NewInMemOwnerRepo())
	mediaMgr := media.NewManager(media.NewInMemMediaRepo(), blobStub{}, gateway)
	solveSrvc := solve.NewService(solve.NewInMemSubmRepo(), ownerSrvc, mediaMgr, aiStub{}, gateway)

	server := backendhttp.NewHttpServer(
		solvehttp.NewSolveHttpHandler(solveSrvc, sessionMgr),
		ownerhttp.NewOwnerHttpHandler(ownerSrvc, sessionMgr, testJwtKey),
		sessionhttp.NewSessionHttpHandler(sessionMgr),
		mediahttp.NewMediaHttpHandler(mediaMgr),
		gateway,
		testJwtKey,
	)
	t.Cleanup(server.Stop)

	return server.Router()
}

func doJson(t *testing.T, handler http.Handler, method, path, token string, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// decodeData unwraps a success envelope into target.
func decodeData(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()

	var wrapper struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &wrapper)
	require.NoError(t, err, "Failed to unmarshal response body: %s", w.Body.String())
	require.Equal(t, "success", wrapper.Status, "Response body: %s", w.Body.String())
	require.NoError(t, json.Unmarshal(wrapper.Data, target))
}

func assertErrorInHttpResponse(t *testing.T, w *httptest.ResponseRecorder, expectedCode string) {
	t.Helper()

	assert.NotEqual(t, http.StatusOK, w.Code, "Expected error status code")

	var errorResponse struct {
		Status  string `json:"status"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &errorResponse)
	require.NoError(t, err, "Failed to unmarshal error response body: %s", w.Body.String())

	assert.Equal(t, "error", errorResponse.Status, "Expected status to be 'error'")
	assert.Equal(t, expectedCode, errorResponse.Code, "Incorrect error code")
	assert.NotEmpty(t, errorResponse.Message, "Expected non-empty error message")
}

// registerAndLogin creates an account and returns a bearer token plus
// the owner uuid it authenticates as.
func registerAndLogin(t *testing.T, handler http.Handler, email string) (token string, ownerUuid string) {
	t.Helper()

	w := doJson(t, handler, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, "Registration failed: %s", w.Body.String())

	w = doJson(t, handler, http.MethodPost, "/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, "Login failed: %s", w.Body.String())

	var loginResp struct {
		Token     string `json:"token"`
		OwnerUUID string `json:"owner_uuid"`
		SessionID string `json:"session_id"`
	}
	decodeData(t, w, &loginResp)
	require.NotEmpty(t, loginResp.Token, "JWT token should not be empty")
	require.NotEmpty(t, loginResp.SessionID)

	return loginResp.Token, loginResp.OwnerUUID
}

type problemView struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"owner_id"`
	InputType   string   `json:"input_type"`
	Title       string   `json:"title"`
	TextContent string   `json:"text_content"`
	Status      string   `json:"status"`
	Solution    string   `json:"solution"`
	Subject     string   `json:"subject"`
	Difficulty  string   `json:"difficulty"`
	Tags        []string `json:"tags"`
}

type submitData struct {
	Success    bool     `json:"success"`
	ProblemID  string   `json:"problem_id"`
	Status     string   `json:"status"`
	Solution   string   `json:"solution"`
	Subject    string   `json:"subject"`
	Difficulty string   `json:"difficulty"`
	Tags       []string `json:"tags"`
}

func TestGuestSubmitAndFetchOverHttp(t *testing.T) {
	handler := setupRouter(t)

	// Submit without any token
	w := doJson(t, handler, http.MethodPost, "/problems", "", map[string]interface{}{
		"input_type":   "text",
		"title":        "<script>alert(1)</script>Line slope",
		"text_content": "What is the slope of y = 2x + 1?",
	})
	require.Equal(t, http.StatusOK, w.Code, "Submit failed: %s", w.Body.String())

	var res submitData
	decodeData(t, w, &res)
	assert.True(t, res.Success)
	assert.Equal(t, "completed", res.Status)
	assert.Equal(t, "Mathematics", res.Subject)
	assert.Equal(t, "easy", res.Difficulty)
	assert.Contains(t, res.Tags, "slope")
	assert.NotEmpty(t, res.Solution)

	// Fetch it back, still unauthenticated
	w = doJson(t, handler, http.MethodGet, "/problems/"+res.ProblemID, "", nil)
	require.Equal(t, http.StatusOK, w.Code, "Fetch failed: %s", w.Body.String())

	var view problemView
	decodeData(t, w, &view)
	assert.Equal(t, res.ProblemID, view.ID)
	assert.Equal(t, ident.GuestOwnerID, view.OwnerID)
	assert.Equal(t, "Line slope", view.Title, "script block should be stripped")
	assert.Equal(t, "completed", view.Status)
	assert.Equal(t, res.Solution, view.Solution)

	// The guest listing shows it too
	w = doJson(t, handler, http.MethodGet, "/problems", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []problemView
	decodeData(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, res.ProblemID, list[0].ID)
}

func TestAuthenticatedSubmitFlowOverHttp(t *testing.T) {
	handler := setupRouter(t)
	token, ownerUuid := registerAndLogin(t, handler, "alice@example.com")

	w := doJson(t, handler, http.MethodPost, "/problems", token, map[string]interface{}{
		"input_type":   "text",
		"title":        "Line slope",
		"text_content": "What is the slope of y = 2x + 1?",
	})
	require.Equal(t, http.StatusOK, w.Code, "Submit failed: %s", w.Body.String())

	var res submitData
	decodeData(t, w, &res)
	require.True(t, res.Success)

	// The record belongs to the authenticated owner
	w = doJson(t, handler, http.MethodGet, "/problems/"+res.ProblemID, token, nil)
	require.Equal(t, http.StatusOK, w.Code, "Fetch failed: %s", w.Body.String())

	var view problemView
	decodeData(t, w, &view)
	assert.Equal(t, ownerUuid, view.OwnerID)

	// The session picked up the solved problem
	w = doJson(t, handler, http.MethodGet, "/sessions/current", token, nil)
	require.Equal(t, http.StatusOK, w.Code, "Session fetch failed: %s", w.Body.String())

	var sess struct {
		ID            string   `json:"id"`
		OwnerUUID     string   `json:"owner_uuid"`
		TotalProblems int      `json:"total_problems"`
		Subjects      []string `json:"subjects"`
	}
	decodeData(t, w, &sess)
	assert.Equal(t, ownerUuid, sess.OwnerUUID)
	assert.Equal(t, 1, sess.TotalProblems)
	assert.Contains(t, sess.Subjects, "Mathematics")

	// The audit trail has the whole story
	w = doJson(t, handler, http.MethodGet, "/audit", token, nil)
	require.Equal(t, http.StatusOK, w.Code, "Audit fetch failed: %s", w.Body.String())

	var events []struct {
		Action       string `json:"action"`
		ResourceType string `json:"resource_type"`
	}
	decodeData(t, w, &events)
	actions := make([]string, 0, len(events))
	for _, event := range events {
		actions = append(actions, event.Action)
	}
	assert.Contains(t, actions, "session_created")
	assert.Contains(t, actions, "submission_created")
	assert.Contains(t, actions, "submission_completed")

	// Logout ends the session
	w = doJson(t, handler, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code, "Logout failed: %s", w.Body.String())

	w = doJson(t, handler, http.MethodGet, "/sessions/current", token, nil)
	assertErrorInHttpResponse(t, w, session.ErrCodeNoActiveSession)
}

func TestSubmitValidationErrorsOverHttp(t *testing.T) {
	handler := setupRouter(t)

	testCases := []struct {
		name      string
		body      map[string]interface{}
		errorCode string
	}{
		{
			name: "Missing Title",
			body: map[string]interface{}{
				"input_type":   "text",
				"text_content": "2+2?",
			},
			errorCode: solve.ErrCodeTitleRequired,
		},
		{
			name: "Missing Text Content",
			body: map[string]interface{}{
				"input_type": "text",
				"title":      "Sum",
			},
			errorCode: solve.ErrCodePayloadRequired,
		},
		{
			name: "Unknown Input Type",
			body: map[string]interface{}{
				"input_type":   "carrier-pigeon",
				"title":        "Sum",
				"text_content": "2+2?",
			},
			errorCode: solve.ErrCodeInvalidInputType,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJson(t, handler, http.MethodPost, "/problems", "", tc.body)
			assertErrorInHttpResponse(t, w, tc.errorCode)
		})
	}

	// Malformed JSON never reaches the service
	req := httptest.NewRequest(http.MethodPost, "/problems", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFetchProblemScopingOverHttp(t *testing.T) {
	handler := setupRouter(t)

	// Malformed uuid fails at the transport layer
	w := doJson(t, handler, http.MethodGet, "/problems/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown uuid reports not found
	w = doJson(t, handler, http.MethodGet, "/problems/7b9f08f1-95a6-4f6e-bd6a-6a5d4f3e2c1b", "", nil)
	assertErrorInHttpResponse(t, w, solve.ErrCodeSubmNotFound)

	// Alice's record is invisible to Bob
	aliceToken, _ := registerAndLogin(t, handler, "alice@example.com")
	w = doJson(t, handler, http.MethodPost, "/problems", aliceToken, map[string]interface{}{
		"input_type":   "text",
		"title":        "Line slope",
		"text_content": "What is the slope of y = 2x + 1?",
	})
	require.Equal(t, http.StatusOK, w.Code, "Submit failed: %s", w.Body.String())
	var res submitData
	decodeData(t, w, &res)

	bobToken, _ := registerAndLogin(t, handler, "bob@example.com")
	w = doJson(t, handler, http.MethodGet, "/problems/"+res.ProblemID, bobToken, nil)
	assertErrorInHttpResponse(t, w, solve.ErrCodeSubmNotFound)

	// Bob's listing is empty as well
	w = doJson(t, handler, http.MethodGet, "/problems", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []problemView
	decodeData(t, w, &list)
	assert.Empty(t, list)
}

func TestMediaUploadOverHttp(t *testing.T) {
	handler := setupRouter(t)
	token, _ := registerAndLogin(t, handler, "alice@example.com")

	w := uploadMedia(t, handler, pngBytes(t), token)
	require.Equal(t, http.StatusOK, w.Code, "Upload failed: %s", w.Body.String())

	var uploaded struct {
		ID       string `json:"id"`
		Kind     string `json:"kind"`
		MimeType string `json:"mime_type"`
		Status   string `json:"status"`
		Url      string `json:"url"`
	}
	decodeData(t, w, &uploaded)
	assert.Equal(t, "image", uploaded.Kind)
	assert.Equal(t, "image/jpeg", uploaded.MimeType, "images are recompressed on upload")
	assert.Contains(t, uploaded.Url, "https://media.test.local/")

	// The owner sees it in their listing
	w = doJson(t, handler, http.MethodGet, "/media", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []struct {
		ID string `json:"id"`
	}
	decodeData(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, uploaded.ID, list[0].ID)

	// Guests do not
	w = doJson(t, handler, http.MethodGet, "/media", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var guestList []struct {
		ID string `json:"id"`
	}
	decodeData(t, w, &guestList)
	assert.Empty(t, guestList)

	// Deleting hides it from the listing
	w = doJson(t, handler, http.MethodDelete, "/media/"+uploaded.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code, "Delete failed: %s", w.Body.String())

	w = doJson(t, handler, http.MethodGet, "/media", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list = nil
	decodeData(t, w, &list)
	assert.Empty(t, list)
}

func uploadMedia(t *testing.T, handler http.Handler, content []byte, token string) *httptest.ResponseRecorder {
	t.Helper()

	var b bytes.Buffer
	mw := multipart.NewWriter(&b)
	formFile, err := mw.CreateFormFile("file", "problem.png")
	require.NoError(t, err)
	_, err = formFile.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/media", &b)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
