package solve

import "strings"

type Validatable interface {
	IsValid() error
}

// ValidateSubmit checks a submission request without touching any
// backend. Clients run the same checks before submitting so certainly
// invalid input fails fast without a network call.
func ValidateSubmit(p SubmitParams) error {
	title := submissionTitle{Value: p.Title}
	payload := submissionPayload{
		InputType:   InputType(p.InputType),
		TextContent: p.TextContent,
		ImageData:   p.ImageData,
		VoiceUrl:    p.VoiceUrl,
	}
	for _, v := range []Validatable{&title, &payload} {
		if err := v.IsValid(); err != nil {
			return err
		}
	}
	return nil
}

const maxTitleLength = 200
const maxContentLengthKilobytes = 64 // 64 KB

type submissionTitle struct {
	Value string
}

func (t *submissionTitle) IsValid() error {
	if strings.TrimSpace(t.Value) == "" {
		return newErrTitleRequired()
	}
	if len(t.Value) > maxTitleLength {
		return newErrTitleTooLong(maxTitleLength)
	}
	return nil
}

// submissionPayload checks that the type-specific content field is
// present for the declared input type.
type submissionPayload struct {
	InputType   InputType
	TextContent string
	ImageData   string
	VoiceUrl    string
}

func (p *submissionPayload) IsValid() error {
	switch p.InputType {
	case InputText:
		if strings.TrimSpace(p.TextContent) == "" {
			return newErrPayloadRequired(InputText, "text_content")
		}
		if len(p.TextContent) > maxContentLengthKilobytes*1000 {
			return newErrContentTooLong(maxContentLengthKilobytes)
		}
	case InputImage:
		if p.ImageData == "" {
			return newErrPayloadRequired(InputImage, "image_data")
		}
	case InputVoice:
		if strings.TrimSpace(p.VoiceUrl) == "" {
			return newErrPayloadRequired(InputVoice, "voice_url")
		}
	default:
		return newErrInvalidInputType(string(p.InputType))
	}
	return nil
}
