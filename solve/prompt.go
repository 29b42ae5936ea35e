package solve

import (
	"fmt"
	"strings"
)

// buildPrompt assembles the provider prompt from the sanitized request.
// The trailing instruction asks for Subject/Difficulty/Tags lines so
// the answer parser has structured lines to find instead of pure prose.
func buildPrompt(p SubmitParams) string {
	var b strings.Builder
	b.WriteString("You are a tutoring assistant. Solve the following problem step by step and explain your reasoning.\n\n")
	fmt.Fprintf(&b, "Title: %s\n", p.Title)
	if p.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", p.Description)
	}

	switch InputType(p.InputType) {
	case InputText:
		fmt.Fprintf(&b, "Problem: %s\n", p.TextContent)
	case InputImage:
		b.WriteString("The problem statement is in the attached image.\n")
	case InputVoice:
		fmt.Fprintf(&b, "The problem was submitted as a voice recording: %s\n", p.VoiceUrl)
	}

	b.WriteString("\nEnd your answer with exactly three lines:\n")
	b.WriteString("Subject: the subject area of the problem\n")
	b.WriteString("Difficulty: easy, medium or hard\n")
	b.WriteString("Tags: a few comma separated keywords\n")
	return b.String()
}
