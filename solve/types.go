package solve

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type InputType string

const (
	InputText  InputType = "text"
	InputImage InputType = "image"
	InputVoice InputType = "voice"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// statusOrder ranks statuses along the forward-only lifecycle. The two
// terminal statuses share the highest rank.
var statusOrder = map[Status]int{
	StatusPending:    0,
	StatusProcessing: 1,
	StatusCompleted:  2,
	StatusError:      2,
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError
}

// CanAdvanceTo reports whether a transition to next moves strictly
// forward. A terminal status accepts no transition at all, so a
// persisted submission can never regress.
func (s Status) CanAdvanceTo(next Status) bool {
	if s.IsTerminal() {
		return false
	}
	cur, ok := statusOrder[s]
	if !ok {
		return false
	}
	nxt, ok := statusOrder[next]
	if !ok {
		return false
	}
	return nxt > cur
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Submission is one problem submitted for AI-assisted solving. Owned by
// exactly one owner. Created and mutated only by the solve service;
// everyone else reads.
type Submission struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	InputType   InputType
	Title       string
	Description string

	TextContent string
	ImageUrl    string
	VoiceUrl    string

	Status           Status
	Solution         string
	Topic            string
	Difficulty       Difficulty
	Tags             []string
	ErrorMessage     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ProcessingMillis int64
}

func (s *Submission) clone() *Submission {
	if s == nil {
		return nil
	}
	res := *s
	if s.Tags != nil {
		res.Tags = append([]string(nil), s.Tags...)
	}
	return &res
}

// SubmitParams is the wire-shaped submission request. OwnerID is
// optional: absent means guest, malformed gets silently replaced with a
// fresh id.
type SubmitParams struct {
	InputType   string `json:"input_type"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	TextContent string `json:"text_content,omitempty"`
	ImageData   string `json:"image_data,omitempty"` // base64, no data: prefix
	VoiceUrl    string `json:"voice_url,omitempty"`
	OwnerID     string `json:"owner_id,omitempty"`
}

// SubmitResult is what a submit call hands back. Success false with a
// non-nil ProblemID means the submission was accepted but processing
// failed; the persisted record is terminal and carries the message.
type SubmitResult struct {
	Success      bool       `json:"success"`
	ProblemID    uuid.UUID  `json:"problem_id"`
	Status       Status     `json:"status"`
	Solution     string     `json:"solution,omitempty"`
	Subject      string     `json:"subject,omitempty"`
	Difficulty   Difficulty `json:"difficulty,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	ErrorMessage string     `json:"error,omitempty"`
}

type SubmRepo interface {
	// Get returns nil without an error when the submission does not exist.
	Get(ctx context.Context, id uuid.UUID) (*Submission, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]Submission, error)
	Save(ctx context.Context, subm *Submission) error
}
