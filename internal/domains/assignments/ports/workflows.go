package ports

import (
	"context"
	"time"

	"github.com/Apurer/daycare-api/internal/shared/actor"
)

// WorkflowOrchestrator runs auto-assign durably when a workflow engine is available.
type WorkflowOrchestrator interface {
	AutoAssign(ctx context.Context, caller actor.Actor, date time.Time) (*AutoAssignResult, error)
}
