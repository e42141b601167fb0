package board

import (
	"context"
	"sync"

	"github.com/davidmorenoc/taskboard-api/internal/models"
)

// TaskAPI is the slice of the API the board needs. *Client implements it.
type TaskAPI interface {
	ListTasks(ctx context.Context, filter string) ([]models.Task, error)
	UpdateTaskState(ctx context.Context, taskID string, state models.TaskState) error
}

// Board holds the fetched task list and applies drag-drop lane transitions
// optimistically: the local list changes before the server round trip, and
// is restored from a snapshot when the server rejects the update. The
// server copy stays authoritative through re-fetches; within a lane, tasks
// keep whatever order the last fetch returned.
type Board struct {
	api    TaskAPI
	filter string

	mu    sync.Mutex
	tasks []models.Task
}

// NewBoard creates a board over the given API, listing under filter.
func NewBoard(api TaskAPI, filter string) *Board {
	return &Board{
		api:    api,
		filter: filter,
	}
}

// Refresh replaces the local task list with the server's.
func (b *Board) Refresh(ctx context.Context) error {
	tasks, err := b.api.ListTasks(ctx, b.filter)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.tasks = tasks
	b.mu.Unlock()
	return nil
}

// Tasks returns a copy of the current task list.
func (b *Board) Tasks() []models.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Task, len(b.tasks))
	copy(out, b.tasks)
	return out
}

// Lanes groups the current tasks into the four fixed lanes. Every lane is
// present in the result even when empty.
func (b *Board) Lanes() map[models.TaskState][]models.Task {
	b.mu.Lock()
	defer b.mu.Unlock()

	lanes := make(map[models.TaskState][]models.Task, len(models.States))
	for _, state := range models.States {
		lanes[state] = []models.Task{}
	}
	for _, task := range b.tasks {
		lanes[task.State] = append(lanes[task.State], task)
	}
	return lanes
}

// ApplyDrop handles a drag-drop of taskID onto lane. An unknown lane or a
// task not on the board is a no-op. Otherwise the local list is mutated
// first, the server is updated, and on failure the pre-drop snapshot is
// restored and the error returned for the caller to surface.
func (b *Board) ApplyDrop(ctx context.Context, taskID string, lane models.TaskState) error {
	if !lane.Valid() {
		return nil
	}

	b.mu.Lock()
	idx := -1
	for i := range b.tasks {
		if b.tasks[i].ID == taskID {
			idx = i
			break
		}
	}
	if idx == -1 {
		b.mu.Unlock()
		return nil
	}

	snapshot := make([]models.Task, len(b.tasks))
	copy(snapshot, b.tasks)
	b.tasks[idx].State = lane
	b.mu.Unlock()

	if err := b.api.UpdateTaskState(ctx, taskID, lane); err != nil {
		b.mu.Lock()
		b.tasks = snapshot
		b.mu.Unlock()
		return err
	}
	return nil
}
