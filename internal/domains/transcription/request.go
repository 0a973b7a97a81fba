package transcription

import (
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"github.com/xpanvictor/audioscribe/internal/domains/credit"
	"github.com/xpanvictor/audioscribe/internal/domains/transcript"
)

// SupportedMIMETypes lists the accepted audio containers.
var SupportedMIMETypes = map[string]bool{
	"audio/mpeg":  true,
	"audio/wav":   true,
	"audio/x-m4a": true,
	"audio/mp4":   true,
	"audio/aac":   true,
}

// Request is one processing call as submitted by a client.
// @Description Audio to diarize and transcribe
type Request struct {
	AudioData       string             `json:"audioData" binding:"required"`
	MimeType        string             `json:"mimeType" example:"audio/mpeg"`
	FileName        string             `json:"fileName,omitempty" example:"interview.m4a"`
	Options         transcript.Options `json:"options"`
	DurationMins    int                `json:"durationMins,omitempty" example:"3"`
	DurationSeconds float64            `json:"durationSeconds,omitempty" example:"125.4"`
}

// SupportedAudio reports whether the type (parameters ignored) or the file
// name identifies an accepted audio file.
func SupportedAudio(mimeType, fileName string) bool {
	if strings.HasSuffix(strings.ToLower(fileName), ".m4a") {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return false
	}
	return SupportedMIMETypes[mediaType]
}

// RequiredMinutes is the billable quantity of the request.
func (r Request) RequiredMinutes() (int, error) {
	switch {
	case r.DurationMins > 0:
		return r.DurationMins, nil
	case r.DurationSeconds > 0:
		return credit.EstimateMinutes(r.DurationSeconds), nil
	default:
		return 0, fmt.Errorf("%w: audio duration is required", ErrInvalidInput)
	}
}

// MediaType is the MIME type sent to the engine.
func (r Request) MediaType() string {
	if mediaType, _, err := mime.ParseMediaType(r.MimeType); err == nil {
		if mediaType == "audio/x-m4a" {
			return "audio/mp4"
		}
		return mediaType
	}
	if strings.HasSuffix(strings.ToLower(r.FileName), ".m4a") {
		return "audio/mp4"
	}
	return r.MimeType
}

type validated struct {
	audio   []byte
	minutes int
}

func (r Request) validate() (*validated, error) {
	if !SupportedAudio(r.MimeType, r.FileName) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, r.MimeType)
	}
	minutes, err := r.RequiredMinutes()
	if err != nil {
		return nil, err
	}
	if r.AudioData == "" {
		return nil, fmt.Errorf("%w: audio data is required", ErrInvalidInput)
	}

	data := r.AudioData
	// tolerate a data URL as produced by FileReader.readAsDataURL
	if i := strings.Index(data, ";base64,"); i >= 0 && strings.HasPrefix(data, "data:") {
		data = data[i+len(";base64,"):]
	}
	audio, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%w: audio data is not valid base64", ErrInvalidInput)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: audio data is empty", ErrInvalidInput)
	}
	return &validated{audio: audio, minutes: minutes}, nil
}
