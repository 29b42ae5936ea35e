package coord

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/luminara-app/backend/solve"
)

// ErrPollTimeout is returned when the poll attempt cap is reached while
// the submission is still non-terminal. The server record is left
// untouched; only the local loop gives up.
var ErrPollTimeout = errors.New("coord: timed out waiting for a terminal status")

// SubmitFunc sends a submission request to the backend.
type SubmitFunc func(ctx context.Context, p solve.SubmitParams) (*solve.SubmitResult, error)

// FetchFunc reads the current state of one submission. A non-nil owner
// scopes the read so another owner's record comes back as not found.
type FetchFunc func(ctx context.Context, id uuid.UUID, owner *uuid.UUID) (*solve.Submission, error)

type CredSource string

const (
	CredSession   CredSource = "session"
	CredLegacy    CredSource = "legacy"
	CredAnonymous CredSource = "anonymous"
)

// Credential identifies the caller on submission requests.
type Credential struct {
	OwnerID   string
	SessionID string
	Source    CredSource
}

const (
	DefaultPollInterval = 2 * time.Second
	DefaultMaxPolls     = 60
)

// Coordinator drives a submission from the client side: validate
// locally, submit, then poll the persisted record until it turns
// terminal or the attempt cap runs out. At most one poll loop is live;
// each new Submit (and Clear/Close) bumps a generation counter that
// in-flight loops check before touching shared state, so a stale loop
// can never overwrite newer state.
type Coordinator struct {
	submit SubmitFunc
	fetch  FetchFunc

	interval time.Duration
	maxPolls int

	liveSession func() *Credential
	cachedCred  func() *Credential

	logger *slog.Logger

	mu           sync.Mutex
	generation   uint64
	run          *pollRun
	problemID    uuid.UUID
	result       *solve.SubmitResult
	latest       *solve.Submission
	lastFetchErr error
	pollErr      error
}

// pollRun carries the outcome of one poll loop. The loop goroutine is
// the only writer until done is closed; readers wait on done first.
type pollRun struct {
	done chan struct{}
	subm *solve.Submission
	err  error
}

func New(submit SubmitFunc, fetch FetchFunc) *Coordinator {
	return &Coordinator{
		submit:   submit,
		fetch:    fetch,
		interval: DefaultPollInterval,
		maxPolls: DefaultMaxPolls,
		logger:   slog.Default().With("module", "coord"),
	}
}

func (c *Coordinator) WithPolling(interval time.Duration, maxPolls int) *Coordinator {
	c.interval = interval
	c.maxPolls = maxPolls
	return c
}

// WithCredentials installs the credential sources consulted on submit,
// in priority order: a live session first, then a cached legacy
// credential. Either func may return nil to pass.
func (c *Coordinator) WithCredentials(liveSession, cachedCred func() *Credential) *Coordinator {
	c.liveSession = liveSession
	c.cachedCred = cachedCred
	return c
}

func (c *Coordinator) resolveCredential() Credential {
	if c.liveSession != nil {
		if cred := c.liveSession(); cred != nil {
			cred.Source = CredSession
			return *cred
		}
	}
	if c.cachedCred != nil {
		if cred := c.cachedCred(); cred != nil {
			cred.Source = CredLegacy
			return *cred
		}
	}
	return Credential{Source: CredAnonymous}
}

// Submit validates the request locally, invalidates any in-flight poll
// loop, sends the submission and, when the returned status is still
// non-terminal, starts polling in the background. Certainly invalid
// input fails fast without any network call.
func (c *Coordinator) Submit(ctx context.Context, p solve.SubmitParams) (*solve.SubmitResult, error) {
	if err := solve.ValidateSubmit(p); err != nil {
		return nil, err
	}

	cred := c.resolveCredential()
	if p.OwnerID == "" {
		p.OwnerID = cred.OwnerID
	}

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.resetStateLocked()
	c.mu.Unlock()

	res, err := c.submit(ctx, p)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		// superseded while the request was in flight; hand the result
		// back but leave the newer state alone
		return res, nil
	}
	c.problemID = res.ProblemID
	c.result = res

	if !res.Status.IsTerminal() {
		var owner *uuid.UUID
		if cred.Source != CredAnonymous {
			if id, parseErr := uuid.Parse(cred.OwnerID); parseErr == nil {
				owner = &id
			}
		}
		run := &pollRun{done: make(chan struct{})}
		c.run = run
		go c.pollLoop(ctx, gen, res.ProblemID, owner, run)
	}
	return res, nil
}

// pollLoop fetches the submission once per tick until it is terminal,
// the attempt cap is reached, the context ends, or a newer generation
// supersedes it. A failed fetch is a failed status check, not a failed
// submission: it is recorded and the loop keeps going.
func (c *Coordinator) pollLoop(ctx context.Context, gen uint64, id uuid.UUID, owner *uuid.UUID, run *pollRun) {
	defer close(run.done)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for attempt := 0; attempt < c.maxPolls; attempt++ {
		select {
		case <-ctx.Done():
			run.err = ctx.Err()
			c.endRun(gen, ctx.Err())
			return
		case <-ticker.C:
		}
		if c.stale(gen) {
			return
		}

		subm, err := c.fetch(ctx, id, owner)
		if err != nil {
			c.recordFetchErr(gen, err)
			continue
		}
		c.recordLatest(gen, subm)
		if subm.Status.IsTerminal() {
			run.subm = subm
			return
		}
	}

	run.err = ErrPollTimeout
	c.endRun(gen, ErrPollTimeout)
	c.logger.Warn("gave up polling submission", "subm_uuid", id, "attempts", c.maxPolls)
}

// Wait blocks until the poll loop started by the last Submit finishes
// or the context ends. It returns the terminal submission the loop saw,
// ErrPollTimeout when attempts ran out, or (nil, nil) when there was
// nothing to wait for or the loop was superseded by a newer Submit.
func (c *Coordinator) Wait(ctx context.Context) (*solve.Submission, error) {
	c.mu.Lock()
	run := c.run
	latest := c.latest
	c.mu.Unlock()

	if run == nil {
		return latest, nil
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-run.done:
		return run.subm, run.err
	}
}

// Snapshot is a point-in-time copy of the coordinator's local state.
type Snapshot struct {
	ProblemID    uuid.UUID
	Result       *solve.SubmitResult
	Latest       *solve.Submission
	LastFetchErr error
	PollErr      error
	Polling      bool
}

func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	polling := false
	if c.run != nil {
		select {
		case <-c.run.done:
		default:
			polling = true
		}
	}
	return Snapshot{
		ProblemID:    c.problemID,
		Result:       c.result,
		Latest:       c.latest,
		LastFetchErr: c.lastFetchErr,
		PollErr:      c.pollErr,
		Polling:      polling,
	}
}

// Clear drops local submission state and invalidates any in-flight
// poll loop. Server records are never touched.
func (c *Coordinator) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.resetStateLocked()
}

// Close invalidates any in-flight poll loop so no timer outlives the
// coordinator's owner. Local state stays readable.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.run = nil
}

func (c *Coordinator) resetStateLocked() {
	c.run = nil
	c.problemID = uuid.Nil
	c.result = nil
	c.latest = nil
	c.lastFetchErr = nil
	c.pollErr = nil
}

func (c *Coordinator) stale(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen != c.generation
}

func (c *Coordinator) recordFetchErr(gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return
	}
	c.lastFetchErr = err
	c.logger.Warn("submission status check failed", "error", err)
}

func (c *Coordinator) recordLatest(gen uint64, subm *solve.Submission) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return
	}
	c.latest = subm
}

func (c *Coordinator) endRun(gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return
	}
	c.pollErr = err
}
