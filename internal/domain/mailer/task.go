package mailer

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// TaskTypeSendMail is the asynq task type for sending transactional emails.
const TaskTypeSendMail = "mailer:send"

// SendMailPayload is the serialized payload for a send mail task.
type SendMailPayload struct {
	LogID string `json:"log_id"`
}

// NewSendMailTask creates a new asynq task for sending an email.
func NewSendMailTask(logID string) (*asynq.Task, error) {
	payload, err := json.Marshal(SendMailPayload{LogID: logID})
	if err != nil {
		return nil, fmt.Errorf("marshaling task payload: %w", err)
	}
	return asynq.NewTask(TaskTypeSendMail, payload), nil
}

// ParseSendMailPayload deserializes the task payload.
func ParseSendMailPayload(data []byte) (*SendMailPayload, error) {
	var p SendMailPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshaling task payload: %w", err)
	}
	return &p, nil
}
