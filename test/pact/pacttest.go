//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "daycare-api"
	ConsumerName = "staff-portal"

	StateDogUnassigned = "dog 100 is scheduled on 2024-06-03 and unassigned"
	StateDogAssigned   = "dog 100 is assigned to staff 10 on 2024-06-03 as assignment 1"
	StateBaseline      = "daycare baseline"
)

const (
	// ScheduleDate is a Monday inside the provider's scheduling window.
	ScheduleDate = "2024-06-03"
	// OutOfWindowDate lies past the scheduling window.
	OutOfWindowDate = "2024-07-01"

	DogID        int64 = 100
	DogName            = "Fido"
	AssignmentID int64 = 1
	StaffID      int64 = 10
	OwnerID      int64 = 1

	// CallerHeader carries the caller's user id when the provider runs with dev auth.
	CallerHeader = "X-Debug-User-ID"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the staff portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
