package api

import (
	"context"
	"sync"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// MockTaskStore is a func-field implementation of store.TaskStore.
type MockTaskStore struct {
	ListTasksFn  func(ctx context.Context) ([]domain.Task, error)
	CreateTaskFn func(ctx context.Context, text string) (domain.Task, error)

	mu          sync.Mutex
	listCalls   int
	createCalls int
}

func (m *MockTaskStore) ListTasks(ctx context.Context) ([]domain.Task, error) {
	m.mu.Lock()
	m.listCalls++
	m.mu.Unlock()
	if m.ListTasksFn == nil {
		return []domain.Task{}, nil
	}
	return m.ListTasksFn(ctx)
}

func (m *MockTaskStore) CreateTask(ctx context.Context, text string) (domain.Task, error) {
	m.mu.Lock()
	m.createCalls++
	m.mu.Unlock()
	if m.CreateTaskFn == nil {
		return domain.Task{ID: 1, Text: text}, nil
	}
	return m.CreateTaskFn(ctx, text)
}

func (m *MockTaskStore) calls() (list, create int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls, m.createCalls
}

// memoryTaskStore assigns ascending IDs under a lock, like a sequence.
type memoryTaskStore struct {
	mu     sync.Mutex
	nextID int64
	tasks  []domain.Task
}

func (s *memoryTaskStore) ListTasks(context.Context) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

func (s *memoryTaskStore) CreateTask(_ context.Context, text string) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t := domain.Task{ID: s.nextID, Text: text}
	s.tasks = append(s.tasks, t)
	return t, nil
}
