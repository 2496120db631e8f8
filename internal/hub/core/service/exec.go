package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"

	"github.com/autoscope-io/autoscope/internal/hub/core/model"
	utilfsm "github.com/autoscope-io/autoscope/internal/pkg/util/fsm"
	"github.com/autoscope-io/autoscope/pkg/log"
)

// Execution lifecycle states.
const (
	ExecStateCreated   = "created"
	ExecStateRunning   = "running"
	ExecStateSucceeded = "succeeded"
	ExecStateFailed    = "failed"
)

const (
	execEventStart   = "start"
	execEventSucceed = "succeed"
	execEventFail    = "fail"
)

// Built-in operations. Unknown operation ids are accepted for forward
// compatibility and complete as failed.
const (
	OperationECUReset       = "ecu_reset"
	OperationSnapshotUpload = "snapshot_upload"
)

// snapshotURLExpiry bounds how long a presigned snapshot link stays valid.
const snapshotURLExpiry = time.Hour

// ExecutionStatus is the externally visible state of one operation
// execution.
type ExecutionStatus struct {
	ID         string         `json:"id"`
	EntityID   string         `json:"entityId"`
	Operation  string         `json:"operation"`
	Status     string         `json:"status"`
	Result     map[string]any `json:"result,omitempty"`
	Reason     string         `json:"reason,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	FinishedAt *time.Time     `json:"finishedAt,omitempty"`
}

type execution struct {
	mu sync.Mutex

	id         string
	collection model.Collection
	entityID   string
	operation  string
	machine    *fsm.FSM
	result     map[string]any
	reason     string
	createdAt  time.Time
	finishedAt *time.Time
}

func newExecution(collection model.Collection, entityID, operation string) *execution {
	e := &execution{
		id:         uuid.NewString(),
		collection: collection,
		entityID:   entityID,
		operation:  operation,
		createdAt:  time.Now(),
	}

	e.machine = fsm.NewFSM(
		ExecStateCreated,
		fsm.Events{
			{Name: execEventStart, Src: []string{ExecStateCreated}, Dst: ExecStateRunning},
			{Name: execEventSucceed, Src: []string{ExecStateRunning}, Dst: ExecStateSucceeded},
			{Name: execEventFail, Src: []string{ExecStateRunning}, Dst: ExecStateFailed},
		},
		fsm.Callbacks{
			"enter_state": utilfsm.WrapEvent(func(ctx context.Context, event *fsm.Event) error {
				if event.Dst == ExecStateSucceeded || event.Dst == ExecStateFailed {
					now := time.Now()
					e.finishedAt = &now
				}
				return nil
			}),
		},
	)

	return e
}

func (e *execution) snapshot() ExecutionStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	result := e.result
	if result != nil {
		clone := make(map[string]any, len(result))
		for k, v := range result {
			clone[k] = v
		}
		result = clone
	}

	return ExecutionStatus{
		ID:         e.id,
		EntityID:   e.entityID,
		Operation:  e.operation,
		Status:     e.machine.Current(),
		Result:     result,
		Reason:     e.reason,
		CreatedAt:  e.createdAt,
		FinishedAt: e.finishedAt,
	}
}

func (e *execution) succeed(ctx context.Context, result map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.result = result
	if err := e.machine.Event(ctx, execEventSucceed); err != nil {
		log.Error(err, "Execution state transition failed", "execution", e.id)
	}
}

func (e *execution) fail(ctx context.Context, reason string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reason = reason
	if err := e.machine.Event(ctx, execEventFail); err != nil {
		log.Error(err, "Execution state transition failed", "execution", e.id)
	}
}

// ExecuteOperation accepts an operation for an existing entity and starts it
// asynchronously. The returned status is already "running"; callers poll
// GetExecution for the outcome. A missing entity is the only synchronous
// failure.
func (s *Service) ExecuteOperation(ctx context.Context, collection model.Collection, id, operationID string, body map[string]any) (ExecutionStatus, error) {
	if _, err := s.resolve(collection, id); err != nil {
		return ExecutionStatus{}, err
	}

	e := newExecution(collection, id, operationID)
	if err := e.machine.Event(ctx, execEventStart); err != nil {
		return ExecutionStatus{}, fmt.Errorf("failed to start execution: %w", err)
	}

	s.execMu.Lock()
	s.execs[e.id] = e
	s.execMu.Unlock()

	// The execution outlives the triggering request on purpose.
	go s.runExecution(context.Background(), e, body)

	log.Info("Accepted operation execution",
		"entity", id, "operation", operationID, "execution", e.id)

	return e.snapshot(), nil
}

// GetExecution returns the current state of one execution.
func (s *Service) GetExecution(execID string) (ExecutionStatus, error) {
	s.execMu.RLock()
	e, ok := s.execs[execID]
	s.execMu.RUnlock()
	if !ok {
		return ExecutionStatus{}, fmt.Errorf("execution %q: %w", execID, model.ErrNotFound)
	}
	return e.snapshot(), nil
}

func (s *Service) runExecution(ctx context.Context, e *execution, body map[string]any) {
	switch e.operation {
	case OperationECUReset:
		// Simulated: a real backend would route this to the vehicle.
		time.Sleep(200 * time.Millisecond)
		e.succeed(ctx, map[string]any{"message": "reset completed"})

	case OperationSnapshotUpload:
		s.runSnapshotUpload(ctx, e, body)

	default:
		e.fail(ctx, "unsupported operation")
	}
}

// runSnapshotUpload archives one bulk file to the configured object store
// and records a presigned download URL in the execution result.
func (s *Service) runSnapshotUpload(ctx context.Context, e *execution, body map[string]any) {
	if s.archive == nil {
		e.fail(ctx, "artifact archive not configured")
		return
	}

	category, _ := body["category"].(string)
	filePath, _ := body["path"].(string)
	if category == "" || filePath == "" {
		e.fail(ctx, "snapshot_upload requires 'category' and 'path'")
		return
	}

	file, err := s.OpenBulkFile(e.collection, e.entityID, category, filePath)
	if err != nil {
		e.fail(ctx, err.Error())
		return
	}
	defer file.Reader.Close()

	objectKey := fmt.Sprintf("%s/%s/%s/%s", e.entityID, category, e.id, file.Name)
	if err := s.archive.Upload(ctx, objectKey, file.Reader, file.Size, file.ContentType); err != nil {
		e.fail(ctx, err.Error())
		return
	}

	url, err := s.archive.PresignedGetURL(ctx, objectKey, snapshotURLExpiry)
	if err != nil {
		e.fail(ctx, err.Error())
		return
	}

	e.succeed(ctx, map[string]any{
		"objectKey":   objectKey,
		"downloadUrl": url,
	})
}
