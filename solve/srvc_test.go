package solve_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminara-app/backend/genai"
	"github.com/luminara-app/backend/ident"
	"github.com/luminara-app/backend/media"
	"github.com/luminara-app/backend/owner"
	"github.com/luminara-app/backend/ratecount"
	"github.com/luminara-app/backend/secgate"
	"github.com/luminara-app/backend/solve"
	"github.com/luminara-app/backend/srvcerr"
)

type testEnv struct {
	srvc  *solve.Service
	repo  *solve.InMemSubmRepo
	ai    *aiClientMock
	audit *secgate.InMemAuditRepo
	blob  *blobStoreMock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := solve.NewInMemSubmRepo()
	audit := secgate.NewInMemAuditRepo()
	gateway := secgate.NewGateway(ratecount.NewMemStore(), audit, nil)
	return newTestEnvWithGateway(t, repo, audit, gateway)
}

func newTestEnvWithGateway(t *testing.T, repo *solve.InMemSubmRepo, audit *secgate.InMemAuditRepo, gateway *secgate.Gateway) *testEnv {
	t.Helper()
	blob := newBlobStoreMock()
	mediaMgr := media.NewManager(media.NewInMemMediaRepo(), blob, gateway)
	ownerSrvc := owner.NewOwnerSrvc(owner.NewInMemOwnerRepo())
	ai := &aiClientMock{
		complete: func(ctx context.Context, req genai.CompletionReq) (string, error) {
			return "The answer is 4.", nil
		},
	}
	srvc := solve.NewService(repo, ownerSrvc, mediaMgr, ai, gateway)
	return &testEnv{srvc: srvc, repo: repo, ai: ai, audit: audit, blob: blob}
}

func assertErrCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	srvcErr := &srvcerr.Error{}
	require.ErrorAs(t, err, &srvcErr)
	assert.Equal(t, code, srvcErr.ErrorCode())
}

func auditActions(t *testing.T, audit *secgate.InMemAuditRepo) []string {
	t.Helper()
	events, err := audit.List(context.Background(), 100)
	require.NoError(t, err)
	actions := make([]string, 0, len(events))
	for _, e := range events {
		actions = append(actions, e.Action)
	}
	return actions
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 30, G: 30, B: 160, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSubmitTextAsGuestCompletes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	guestID := uuid.MustParse(ident.GuestOwnerID)

	env.ai.complete = func(ctx context.Context, req genai.CompletionReq) (string, error) {
		// the record must already be persisted as processing when the
		// provider is called
		mid, err := env.repo.List(ctx, guestID)
		require.NoError(t, err)
		require.Len(t, mid, 1)
		assert.Equal(t, solve.StatusProcessing, mid[0].Status)

		assert.Contains(t, req.Prompt, "Title: T")
		assert.Contains(t, req.Prompt, "2+2?")
		return "The answer is 4.", nil
	}

	res, err := env.srvc.Submit(ctx, solve.SubmitParams{
		InputType:   "text",
		Title:       "T",
		TextContent: "2+2?",
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.True(t, res.Success)
	assert.Equal(t, solve.StatusCompleted, res.Status)
	assert.NotEmpty(t, res.Solution)
	assert.Equal(t, []string{"general", "learning"}, res.Tags)

	subm, err := env.srvc.GetSubm(ctx, res.ProblemID, nil)
	require.NoError(t, err)
	assert.Equal(t, guestID, subm.OwnerID)
	assert.Equal(t, solve.StatusCompleted, subm.Status)
	assert.Equal(t, "General", subm.Topic)
	assert.Equal(t, solve.DifficultyMedium, subm.Difficulty)
	assert.GreaterOrEqual(t, subm.ProcessingMillis, int64(0))

	actions := auditActions(t, env.audit)
	assert.Contains(t, actions, "submission_created")
	assert.Contains(t, actions, "submission_completed")
}

func TestSubmitImageWithoutDataRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.srvc.Submit(ctx, solve.SubmitParams{
		InputType: "image",
		Title:     "geometry sketch",
	})
	assertErrCode(t, err, solve.ErrCodePayloadRequired)

	_, err = env.srvc.Submit(ctx, solve.SubmitParams{
		InputType: "image",
		Title:     "geometry sketch",
		ImageData: "!!!not-base64!!!",
	})
	assertErrCode(t, err, solve.ErrCodeInvalidImageData)

	subms, err := env.repo.List(ctx, uuid.MustParse(ident.GuestOwnerID))
	require.NoError(t, err)
	assert.Empty(t, subms, "rejected submissions must not create records")
	assert.Empty(t, auditActions(t, env.audit))
}

func TestSubmitMissingTitleOrContentRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.srvc.Submit(ctx, solve.SubmitParams{
		InputType:   "text",
		TextContent: "2+2?",
	})
	assertErrCode(t, err, solve.ErrCodeTitleRequired)

	_, err = env.srvc.Submit(ctx, solve.SubmitParams{
		InputType: "text",
		Title:     "T",
	})
	assertErrCode(t, err, solve.ErrCodePayloadRequired)

	_, err = env.srvc.Submit(ctx, solve.SubmitParams{
		InputType:   "carrier-pigeon",
		Title:       "T",
		TextContent: "2+2?",
	})
	assertErrCode(t, err, solve.ErrCodeInvalidInputType)
}

func TestSubmitReplacesInvalidOwnerId(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.srvc.Submit(ctx, solve.SubmitParams{
		InputType:   "text",
		Title:       "T",
		TextContent: "why is the sky blue?",
		OwnerID:     "definitely-not-a-uuid",
	})
	require.NoError(t, err)
	require.True(t, res.Success)

	subm, err := env.srvc.GetSubm(ctx, res.ProblemID, nil)
	require.NoError(t, err)
	assert.True(t, ident.IsValid(subm.OwnerID.String()),
		"reassigned owner id must itself pass validation")
	assert.NotEqual(t, ident.GuestOwnerID, subm.OwnerID.String())
}

func TestSubmitKeepsValidOwnerId(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ownerID := uuid.New()

	res, err := env.srvc.Submit(ctx, solve.SubmitParams{
		InputType:   "text",
		Title:       "T",
		TextContent: "why is the sky blue?",
		OwnerID:     ownerID.String(),
	})
	require.NoError(t, err)

	subm, err := env.srvc.GetSubm(ctx, res.ProblemID, &ownerID)
	require.NoError(t, err)
	assert.Equal(t, ownerID, subm.OwnerID)
}

func TestSubmitProviderFailureMarksRecordError(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.ai.complete = func(ctx context.Context, req genai.CompletionReq) (string, error) {
		return "", srvcerr.New(
			"ai_provider_unavailable",
			"the AI service is temporarily unavailable, please try again later",
		).SetDebug(fmt.Errorf("upstream 500: quota exhausted for project internal-12345"))
	}

	res, err := env.srvc.Submit(ctx, solve.SubmitParams{
		InputType:   "text",
		Title:       "T",
		TextContent: "2+2?",
	})
	require.NoError(t, err, "provider failure is encoded in the result, not returned as a Go error")
	require.NotNil(t, res)

	assert.False(t, res.Success)
	assert.NotEqual(t, uuid.Nil, res.ProblemID)
	assert.Equal(t, solve.StatusError, res.Status)
	assert.NotEmpty(t, res.ErrorMessage)
	assert.NotContains(t, res.ErrorMessage, "quota exhausted")

	subm, err := env.srvc.GetSubm(ctx, res.ProblemID, nil)
	require.NoError(t, err)
	assert.Equal(t, solve.StatusError, subm.Status)
	assert.NotContains(t, subm.ErrorMessage, "internal-12345")
	assert.Empty(t, subm.Solution)

	assert.Contains(t, auditActions(t, env.audit), "submission_failed")
}

func TestSubmitRateLimitStopsExcessSubmissions(t *testing.T) {
	repo := solve.NewInMemSubmRepo()
	audit := secgate.NewInMemAuditRepo()
	gateway := secgate.NewGateway(ratecount.NewMemStore(), audit, nil).
		WithRateLimit(2, time.Minute)
	env := newTestEnvWithGateway(t, repo, audit, gateway)
	ctx := context.Background()

	p := solve.SubmitParams{InputType: "text", Title: "T", TextContent: "2+2?"}
	for i := 0; i < 2; i++ {
		_, err := env.srvc.Submit(ctx, p)
		require.NoError(t, err)
	}

	_, err := env.srvc.Submit(ctx, p)
	assertErrCode(t, err, secgate.ErrCodeRateLimitExceeded)

	subms, err := repo.List(ctx, uuid.MustParse(ident.GuestOwnerID))
	require.NoError(t, err)
	assert.Len(t, subms, 2, "denied submission must not create a record")
}

func TestSubmitImageUploadsMediaAndSendsOriginalToProvider(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	imgB64 := base64.StdEncoding.EncodeToString(pngBytes(t, 100, 50))

	var gotReq genai.CompletionReq
	env.ai.complete = func(ctx context.Context, req genai.CompletionReq) (string, error) {
		gotReq = req
		return "Looks like geometry.\nTags: shapes", nil
	}

	res, err := env.srvc.Submit(ctx, solve.SubmitParams{
		InputType: "image",
		Title:     "sketch",
		ImageData: imgB64,
	})
	require.NoError(t, err)
	require.True(t, res.Success)

	assert.Equal(t, imgB64, gotReq.ImageB64, "provider gets the original image, not the recompressed copy")
	assert.Equal(t, "image/png", gotReq.ImageMIME)

	subm, err := env.srvc.GetSubm(ctx, res.ProblemID, nil)
	require.NoError(t, err)
	assert.Contains(t, subm.ImageUrl, "media-uploads/")
	assert.Equal(t, "Mathematics", subm.Topic)
	assert.Equal(t, []string{"shapes"}, subm.Tags)
	assert.Len(t, env.blob.objects, 1)
}

func TestSubmitSanitizesTitleAndDescription(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.srvc.Submit(ctx, solve.SubmitParams{
		InputType:   "text",
		Title:       "<script>alert(1)</script>Area of a circle",
		Description: `see <img src="a.png" onerror="pwn()"> attached`,
		TextContent: "r = 2, what is the area?",
	})
	require.NoError(t, err)

	subm, err := env.srvc.GetSubm(ctx, res.ProblemID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Area of a circle", subm.Title)
	assert.NotContains(t, subm.Description, "onerror")
	assert.Contains(t, subm.Description, `src="a.png"`)
}

func TestGetSubmScopesReadsToOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ownerA := uuid.New()
	ownerB := uuid.New()

	subm := solve.Submission{
		ID:        uuid.New(),
		OwnerID:   ownerA,
		InputType: solve.InputText,
		Title:     "mine",
		Status:    solve.StatusCompleted,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, env.repo.Save(ctx, &subm))

	got, err := env.srvc.GetSubm(ctx, subm.ID, &ownerA)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Title)

	_, err = env.srvc.GetSubm(ctx, subm.ID, &ownerB)
	assertErrCode(t, err, solve.ErrCodeSubmNotFound)

	_, err = env.srvc.GetSubm(ctx, uuid.New(), nil)
	assertErrCode(t, err, solve.ErrCodeSubmNotFound)
}

func TestListSubmsFiltersAndOrders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ownerID := uuid.New()

	base := time.Now().UTC()
	seed := []solve.Submission{
		{ID: uuid.New(), OwnerID: ownerID, InputType: solve.InputText, Title: "a",
			Status: solve.StatusCompleted, Topic: "Mathematics",
			Difficulty: solve.DifficultyEasy, CreatedAt: base.Add(-3 * time.Minute)},
		{ID: uuid.New(), OwnerID: ownerID, InputType: solve.InputText, Title: "b",
			Status: solve.StatusCompleted, Topic: "Science",
			Difficulty: solve.DifficultyHard, CreatedAt: base.Add(-2 * time.Minute)},
		{ID: uuid.New(), OwnerID: ownerID, InputType: solve.InputText, Title: "c",
			Status: solve.StatusError, Topic: "Mathematics",
			Difficulty: solve.DifficultyMedium, CreatedAt: base.Add(-time.Minute)},
		{ID: uuid.New(), OwnerID: uuid.New(), InputType: solve.InputText, Title: "other",
			Status: solve.StatusCompleted, Topic: "Mathematics", CreatedAt: base},
	}
	for i := range seed {
		require.NoError(t, env.repo.Save(ctx, &seed[i]))
	}

	all, err := env.srvc.ListSubms(ctx, ownerID, solve.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].Title)
	assert.Equal(t, "a", all[2].Title)

	math, err := env.srvc.ListSubms(ctx, ownerID, solve.ListFilter{Topic: "Mathematics"})
	require.NoError(t, err)
	assert.Len(t, math, 2)

	completedMath, err := env.srvc.ListSubms(ctx, ownerID, solve.ListFilter{
		Topic:  "Mathematics",
		Status: solve.StatusCompleted,
	})
	require.NoError(t, err)
	require.Len(t, completedMath, 1)
	assert.Equal(t, "a", completedMath[0].Title)

	hard, err := env.srvc.ListSubms(ctx, ownerID, solve.ListFilter{Difficulty: solve.DifficultyHard})
	require.NoError(t, err)
	require.Len(t, hard, 1)
	assert.Equal(t, "b", hard[0].Title)
}

type aiClientMock struct {
	complete func(ctx context.Context, req genai.CompletionReq) (string, error)
}

func (m *aiClientMock) Complete(ctx context.Context, req genai.CompletionReq) (string, error) {
	return m.complete(ctx, req)
}

type blobStoreMock struct {
	objects map[string][]byte
	upload  func(content []byte, key string, mediaType string) (string, error)
	del     func(key string) error
}

func newBlobStoreMock() *blobStoreMock {
	m := &blobStoreMock{objects: make(map[string][]byte)}
	m.upload = func(content []byte, key string, mediaType string) (string, error) {
		m.objects[key] = content
		return fmt.Sprintf("https://test-bucket.s3.eu-central-1.amazonaws.com/%s", key), nil
	}
	m.del = func(key string) error {
		delete(m.objects, key)
		return nil
	}
	return m
}

func (m *blobStoreMock) Upload(content []byte, key string, mediaType string) (string, error) {
	return m.upload(content, key, mediaType)
}

func (m *blobStoreMock) Delete(key string) error {
	return m.del(key)
}
