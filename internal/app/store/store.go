// Package store holds the in-memory task snapshot for the active user and
// notifies subscribers on every mutation. Derived views are pure functions in
// derive.go.
package store

import (
	"sync"
	"time"

	"github.com/subash43e/taskapp/internal/core/domain"
)

type Listener func()

type Store struct {
	mu          sync.RWMutex
	tasks       []domain.Task
	lastUpdated time.Time
	listeners   []Listener

	now func() time.Time
}

func New() *Store {
	return &Store{now: time.Now}
}

// Subscribe registers a listener invoked after every mutation. Listeners are
// called outside the store lock.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// Snapshot returns a copy of the current task list; callers may not observe
// later mutations through it.
func (s *Store) Snapshot() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// SetTasks replaces the entire snapshot.
func (s *Store) SetTasks(tasks []domain.Task) {
	s.mu.Lock()
	s.tasks = make([]domain.Task, len(tasks))
	copy(s.tasks, tasks)
	s.lastUpdated = s.now()
	s.mu.Unlock()
	s.notify()
}

// AddTask prepends; the snapshot keeps most-recent-first insertion order.
func (s *Store) AddTask(task domain.Task) {
	s.mu.Lock()
	s.tasks = append([]domain.Task{task}, s.tasks...)
	s.lastUpdated = s.now()
	s.mu.Unlock()
	s.notify()
}

// UpdateTask merges the patch into the matching entry. Unknown ids are a
// no-op.
func (s *Store) UpdateTask(id string, patch domain.UpdateTaskInput) {
	s.mu.Lock()
	changed := false
	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		applyPatch(&s.tasks[i], patch)
		s.tasks[i].UpdatedAt = s.now()
		s.lastUpdated = s.now()
		changed = true
		break
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// Replace swaps the entry with a matching id for the given task, typically the
// authoritative row returned by the repository. Unknown ids are a no-op.
func (s *Store) Replace(task domain.Task) {
	s.mu.Lock()
	changed := false
	for i := range s.tasks {
		if s.tasks[i].ID == task.ID {
			s.tasks[i] = task
			s.lastUpdated = s.now()
			changed = true
			break
		}
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// DeleteTask removes the matching entry. Unknown ids are a no-op.
func (s *Store) DeleteTask(id string) {
	s.mu.Lock()
	changed := false
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			s.lastUpdated = s.now()
			changed = true
			break
		}
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// Get returns the task with the given id from the snapshot.
func (s *Store) Get(id string) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, task := range s.tasks {
		if task.ID == id {
			return task, true
		}
	}
	return domain.Task{}, false
}

// Clear drops the snapshot, e.g. on sign-out.
func (s *Store) Clear() {
	s.mu.Lock()
	s.tasks = nil
	s.lastUpdated = time.Time{}
	s.mu.Unlock()
	s.notify()
}

func (s *Store) notify() {
	s.mu.RLock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()
	for _, l := range listeners {
		l()
	}
}

func applyPatch(task *domain.Task, patch domain.UpdateTaskInput) {
	if patch.TaskName != nil {
		task.TaskName = *patch.TaskName
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.DueDateSet {
		if patch.DueDate != nil {
			task.DueDate = *patch.DueDate
		} else {
			task.DueDate = ""
		}
	}
	if patch.DueTimeSet {
		if patch.DueTime != nil {
			task.DueTime = *patch.DueTime
		} else {
			task.DueTime = ""
		}
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.Category != nil {
		task.Category = *patch.Category
	}
	if patch.TagsSet {
		task.Tags = domain.NormalizeTags(patch.Tags)
	}
	if patch.Color != nil {
		task.Color = *patch.Color
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
}
