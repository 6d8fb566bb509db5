package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskOrphanSweep = "storage.orphan_sweep"

type OrphanSweepPayload struct {
	// Objects newer than Cutoff are left alone; an in-flight create may not
	// have inserted its row yet.
	Cutoff time.Time `json:"cutoff"`
}

func NewOrphanSweepTask(payload OrphanSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrphanSweep, data), nil
}

func ParseOrphanSweepPayload(task *asynq.Task) (OrphanSweepPayload, error) {
	var payload OrphanSweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return OrphanSweepPayload{}, err
	}
	return payload, nil
}
