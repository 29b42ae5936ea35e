package http

import (
	"time"

	"github.com/luminara-app/backend/solve"
)

// SubmView is the submission shape served over the wire. Clients decode
// exactly this, so field names are part of the API.
type SubmView struct {
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

func mapSubmView(s *solve.Submission) SubmView {
	return SubmView{
		ID:               s.ID.String(),
		OwnerID:          s.OwnerID.String(),
		InputType:        string(s.InputType),
		Title:            s.Title,
		Description:      s.Description,
		TextContent:      s.TextContent,
		ImageUrl:         s.ImageUrl,
		VoiceUrl:         s.VoiceUrl,
		Status:           string(s.Status),
		Solution:         s.Solution,
		Subject:          s.Topic,
		Difficulty:       string(s.Difficulty),
		Tags:             s.Tags,
		ErrorMessage:     s.ErrorMessage,
		CreatedAt:        s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        s.UpdatedAt.Format(time.RFC3339),
		ProcessingMillis: s.ProcessingMillis,
	}
}

func mapSubmListView(subms []solve.Submission) []SubmView {
	views := make([]SubmView, 0, len(subms))
	for i := range subms {
		views = append(views, mapSubmView(&subms[i]))
	}
	return views
}
