package stream

import (
	"fmt"
	"strconv"

	"github.com/sentrylabs/veritas/internal/models"
)

// StreamMessage is one Redis stream entry with its fields flattened to
// strings.
type StreamMessage struct {
	ID     string
	Fields map[string]string
}

// ParseSubmission maps a stream entry's fields onto a Submission. The
// producer writes one field per attribute; qId is the only numeric field.
func ParseSubmission(msg *StreamMessage) (*models.Submission, error) {
	required := []string{"attemptID", "sourceCode", "driveId", "email"}
	for _, field := range required {
		if msg.Fields[field] == "" {
			return nil, fmt.Errorf("missing required field %q in message %s", field, msg.ID)
		}
	}

	qID := int64(0)
	if raw := msg.Fields["qId"]; raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid qId %q in message %s: %w", raw, msg.ID, err)
		}
		qID = parsed
	}

	return &models.Submission{
		AttemptID:  msg.Fields["attemptID"],
		SourceCode: msg.Fields["sourceCode"],
		Language:   msg.Fields["language"],
		LangCode:   msg.Fields["langCode"],
		Email:      msg.Fields["email"],
		TestID:     msg.Fields["testId"],
		DriveID:    msg.Fields["driveId"],
		QID:        qID,
		Difficulty: msg.Fields["difficulty"],
	}, nil
}
