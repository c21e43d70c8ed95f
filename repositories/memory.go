package repositories

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/teamforge-api/models"
)

// MemoryProjectStore is a mutex-guarded in-memory implementation of
// services.ProjectStore. It mirrors the Postgres repository's
// conditional semantics exactly: the membership predicate and the write
// are evaluated under one lock, and join codes stay reserved after
// deletion. The test suite runs the engine against this store.
type MemoryProjectStore struct {
	mu       sync.Mutex
	projects map[string]*models.Project
	byCode   map[string]string // live join code -> project ID
	codes    map[string]bool   // every code ever reserved, deletions included
}

// NewMemoryProjectStore creates an empty in-memory project store
func NewMemoryProjectStore() *MemoryProjectStore {
	return &MemoryProjectStore{
		projects: make(map[string]*models.Project),
		byCode:   make(map[string]string),
		codes:    make(map[string]bool),
	}
}

func (s *MemoryProjectStore) Create(project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.codes[project.JoinCode] {
		return models.ErrJoinCodeTaken
	}

	now := time.Now()
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	project.CreatedAt = now
	project.UpdatedAt = now
	for i := range project.Members {
		project.Members[i].ID = uuid.New().String()
		project.Members[i].ProjectID = project.ID
		project.Members[i].CreatedAt = now
	}
	for i := range project.Files {
		project.Files[i].ID = uuid.New().String()
		project.Files[i].ProjectID = project.ID
		project.Files[i].CreatedAt = now
	}
	project.MemberCount = len(project.Members)

	s.codes[project.JoinCode] = true
	s.byCode[project.JoinCode] = project.ID
	stored := cloneProject(project)
	s.projects[project.ID] = &stored
	return nil
}

func (s *MemoryProjectStore) FindByID(id string) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[id]
	if !ok {
		return models.Project{}, models.ErrProjectNotFound
	}
	return cloneProject(project), nil
}

func (s *MemoryProjectStore) FindByJoinCode(code string) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byCode[code]
	if !ok {
		return models.Project{}, models.ErrProjectNotFound
	}
	return cloneProject(s.projects[id]), nil
}

func (s *MemoryProjectStore) ListByMember(userID string) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects := make([]models.Project, 0)
	for _, project := range s.projects {
		for _, member := range project.Members {
			if member.UserID == userID {
				projects = append(projects, cloneProject(project))
				break
			}
		}
	}
	return projects, nil
}

func (s *MemoryProjectStore) AddMember(projectID, userID string) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[projectID]
	if !ok {
		return models.Project{}, models.ErrProjectNotFound
	}
	for _, member := range project.Members {
		if member.UserID == userID {
			return models.Project{}, models.ErrAlreadyMember
		}
	}
	if project.MemberCount >= project.TeamSize {
		return models.Project{}, models.ErrCapacityReached
	}

	now := time.Now()
	project.Members = append(project.Members, models.ProjectMember{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		UserID:    userID,
		CreatedAt: now,
	})
	project.MemberCount++
	project.UpdatedAt = now
	return cloneProject(project), nil
}

func (s *MemoryProjectStore) AppendTask(projectID string, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[projectID]
	if !ok {
		return models.ErrProjectNotFound
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	task.ProjectID = projectID
	task.CreatedAt = time.Now()
	project.Tasks = append(project.Tasks, *task)
	return nil
}

func (s *MemoryProjectStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[id]
	if !ok {
		return models.ErrProjectNotFound
	}
	// The code stays in s.codes: it is burned, not released.
	delete(s.byCode, project.JoinCode)
	delete(s.projects, id)
	return nil
}

func cloneProject(p *models.Project) models.Project {
	out := *p
	out.Members = append([]models.ProjectMember(nil), p.Members...)
	out.Files = append([]models.ProjectFile(nil), p.Files...)
	out.Tasks = append([]models.Task(nil), p.Tasks...)
	return out
}

// MemoryHistoryStore is the in-memory services.HistoryStore.
type MemoryHistoryStore struct {
	mu      sync.Mutex
	entries map[string][]models.HistoryEntry
}

// NewMemoryHistoryStore creates an empty in-memory history store
func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{entries: make(map[string][]models.HistoryEntry)}
}

func (s *MemoryHistoryStore) Append(entry *models.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	s.entries[entry.UserID] = append(s.entries[entry.UserID], *entry)
	return nil
}

func (s *MemoryHistoryStore) FindByUser(userID string) ([]models.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.HistoryEntry(nil), s.entries[userID]...), nil
}

// MemoryUserStore is the in-memory services.UserStore.
type MemoryUserStore struct {
	mu      sync.Mutex
	users   map[string]models.User
	byEmail map[string]string
}

// NewMemoryUserStore creates an empty in-memory user store
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users:   make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryUserStore) Create(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[user.Email]; taken {
		return models.ErrEmailTaken
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = *user
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *MemoryUserStore) FindByEmail(email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok {
		return models.User{}, models.ErrUserNotFound
	}
	return s.users[id], nil
}

func (s *MemoryUserStore) FindByID(id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, models.ErrUserNotFound
	}
	return user, nil
}
