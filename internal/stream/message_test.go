package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMessage() *StreamMessage {
	return &StreamMessage{
		ID: "1693000000000-0",
		Fields: map[string]string{
			"attemptID":  "att-42",
			"sourceCode": "int main() { return 0; }",
			"language":   "c",
			"langCode":   "c99",
			"email":      "candidate@test.com",
			"testId":     "test-7",
			"driveId":    "drive-9",
			"qId":        "123",
			"difficulty": "medium",
		},
	}
}

func TestParseSubmission(t *testing.T) {
	sub, err := ParseSubmission(validMessage())

	require.NoError(t, err)
	assert.Equal(t, "att-42", sub.AttemptID)
	assert.Equal(t, "int main() { return 0; }", sub.SourceCode)
	assert.Equal(t, "candidate@test.com", sub.Email)
	assert.Equal(t, "drive-9", sub.DriveID)
	assert.Equal(t, int64(123), sub.QID)
	assert.Equal(t, "medium", sub.Difficulty)
}

func TestParseSubmissionMissingRequiredField(t *testing.T) {
	for _, field := range []string{"attemptID", "sourceCode", "driveId", "email"} {
		msg := validMessage()
		delete(msg.Fields, field)

		_, err := ParseSubmission(msg)
		require.Error(t, err, "field %s", field)
		assert.Contains(t, err.Error(), field)
	}
}

func TestParseSubmissionInvalidQID(t *testing.T) {
	msg := validMessage()
	msg.Fields["qId"] = "not-a-number"

	_, err := ParseSubmission(msg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "qId")
}

func TestParseSubmissionOptionalFieldsDefault(t *testing.T) {
	msg := &StreamMessage{
		ID: "1693000000001-0",
		Fields: map[string]string{
			"attemptID":  "att-1",
			"sourceCode": "x = 1;",
			"driveId":    "drive-1",
			"email":      "a@test.com",
		},
	}

	sub, err := ParseSubmission(msg)
	require.NoError(t, err)
	assert.Equal(t, int64(0), sub.QID)
	assert.Empty(t, sub.Language)
	assert.Empty(t, sub.Difficulty)
}
