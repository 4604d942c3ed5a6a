package scheduler

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const TaskLeadSLACheck = "leads.sla_check"

type LeadSLACheckPayload struct {
	LeadID string `json:"leadId"`
}

func NewLeadSLACheckTask(leadID uuid.UUID) (*asynq.Task, error) {
	data, err := json.Marshal(LeadSLACheckPayload{LeadID: leadID.String()})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadSLACheck, data), nil
}

// ParseLeadSLACheckPayload decodes the task. A payload that can never be
// processed is wrapped in asynq.SkipRetry.
func ParseLeadSLACheckPayload(task *asynq.Task) (uuid.UUID, error) {
	var payload LeadSLACheckPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return uuid.Nil, fmt.Errorf("decode %s payload: %v: %w", TaskLeadSLACheck, err, asynq.SkipRetry)
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid lead id %q: %w", payload.LeadID, asynq.SkipRetry)
	}
	return leadID, nil
}

func slaTaskID(leadID uuid.UUID) string {
	return "sla:" + leadID.String()
}
