package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/teamforge-api/models"
	"github.com/teamforge-api/utils"
)

// maxJoinCodeAttempts bounds the allocator's redraw loop. With 36^8
// possible codes a second collision in a row is already vanishingly
// unlikely; hitting the bound means something is wrong with the store.
const maxJoinCodeAttempts = 10

// CreateProjectInput carries the validated-at-the-edge fields for a new
// project. Files are the stored metadata of already-saved uploads.
type CreateProjectInput struct {
	Name        string
	Description string
	TeamSize    int
	Files       []models.ProjectFile
}

// TaskInput carries the fields for a new task. Status is not settable:
// every task starts as pending.
type TaskInput struct {
	Title       string
	Description string
	AssignedTo  string
	DueDate     *time.Time
}

// ProjectService is the project collaboration and authorization engine:
// join-code allocation, capacity-bounded admission, owner-gated task
// and deletion rights. All invariants are delegated to the store's
// conditional writes; the service never holds locks across store calls.
type ProjectService struct {
	store   ProjectStore
	history *HistoryRecorder
}

// NewProjectService creates a new project service instance
func NewProjectService(store ProjectStore, history *HistoryRecorder) *ProjectService {
	return &ProjectService{store: store, history: history}
}

// CreateProject validates the input, allocates a globally unique join
// code and persists the project with the principal as owner and sole
// member. The owner membership is part of the same atomic create.
func (s *ProjectService) CreateProject(principal models.Principal, input CreateProjectInput) (models.Project, error) {
	if input.Name == "" {
		return models.Project{}, models.NewValidationError("name", "name is required")
	}
	if input.Description == "" {
		return models.Project{}, models.NewValidationError("description", "description is required")
	}
	if input.TeamSize <= 0 {
		return models.Project{}, models.NewValidationError("teamSize", "team size must be a positive number")
	}
	if len(input.Files) == 0 {
		return models.Project{}, models.NewValidationError("files", "at least one file is required")
	}

	for attempt := 0; attempt < maxJoinCodeAttempts; attempt++ {
		project := models.Project{
			Name:        input.Name,
			Description: input.Description,
			TeamSize:    input.TeamSize,
			MemberCount: 1,
			JoinCode:    utils.GenerateJoinCode(),
			OwnerID:     principal.ID,
			Members:     []models.ProjectMember{{UserID: principal.ID}},
			Files:       append([]models.ProjectFile(nil), input.Files...),
		}
		err := s.store.Create(&project)
		if errors.Is(err, models.ErrJoinCodeTaken) {
			continue
		}
		if err != nil {
			return models.Project{}, err
		}
		s.history.Record(principal.ID, fmt.Sprintf("Created project: %s at %s", project.Name, time.Now().Format(time.RFC3339)))
		return project, nil
	}
	return models.Project{}, models.ErrJoinCodeExhausted
}

// ListProjects returns the projects the principal is a member of.
func (s *ProjectService) ListProjects(principal models.Principal) ([]models.Project, error) {
	return s.store.ListByMember(principal.ID)
}

// JoinProject admits the principal into the project identified by the
// join code. The admission itself is a single conditional write at the
// store: membership and capacity are evaluated against the record state
// at commit time, never pre-checked here. A rejected admission is
// surfaced as-is and not retried.
func (s *ProjectService) JoinProject(principal models.Principal, joinCode string) (models.Project, error) {
	if joinCode == "" {
		return models.Project{}, models.NewValidationError("joinCode", "join code is required")
	}

	// The lookup only resolves code to ID; every admission condition is
	// re-evaluated inside AddMember.
	project, err := s.store.FindByJoinCode(joinCode)
	if err != nil {
		return models.Project{}, err
	}

	updated, err := s.store.AddMember(project.ID, principal.ID)
	if err != nil {
		return models.Project{}, err
	}

	s.history.Record(principal.ID, fmt.Sprintf("Joined project: %s at %s", project.Name, time.Now().Format(time.RFC3339)))
	return updated, nil
}

// AddTask appends a task to the project. Only the project owner may
// create tasks; any other caller, members included, gets ErrForbidden
// and nothing is appended.
func (s *ProjectService) AddTask(principal models.Principal, projectID string, input TaskInput) (models.Task, error) {
	project, err := s.store.FindByID(projectID)
	if err != nil {
		return models.Task{}, err
	}
	if project.OwnerID != principal.ID {
		return models.Task{}, models.ErrForbidden
	}

	if input.Title == "" {
		return models.Task{}, models.NewValidationError("title", "title is required")
	}
	if input.Description == "" {
		return models.Task{}, models.NewValidationError("description", "description is required")
	}
	if input.AssignedTo == "" {
		return models.Task{}, models.NewValidationError("assignedTo", "assignedTo is required")
	}

	task := models.Task{
		Title:       input.Title,
		Description: input.Description,
		AssignedTo:  input.AssignedTo,
		Status:      models.TaskStatusPending,
		DueDate:     input.DueDate,
	}
	if err := s.store.AppendTask(projectID, &task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// DeleteProject deletes the project. Owner only; the join code stays
// burned so stale invite links remain inert. Uploaded file blobs are
// the storage collaborator's concern and are not reclaimed.
func (s *ProjectService) DeleteProject(principal models.Principal, projectID string) error {
	project, err := s.store.FindByID(projectID)
	if err != nil {
		return err
	}
	if project.OwnerID != principal.ID {
		return models.ErrForbidden
	}
	if err := s.store.Delete(projectID); err != nil {
		return err
	}
	s.history.Record(principal.ID, fmt.Sprintf("Deleted project: %s at %s", project.Name, time.Now().Format(time.RFC3339)))
	return nil
}
