package repositories

import (
	"errors"

	"github.com/teamforge-api/models"
	"gorm.io/gorm"
)

// ProjectRepository handles database operations for projects. It is the
// Postgres implementation of services.ProjectStore: every invariant
// (join-code uniqueness, capacity bound, no duplicate members) is
// enforced by the database inside a single conditional statement or
// transaction, never by a read-then-write sequence in Go.
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository instance
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a project with its owner membership and file rows in
// one transaction. The unique index on join_code decides collisions;
// the allocator redraws on models.ErrJoinCodeTaken.
func (r *ProjectRepository) Create(project *models.Project) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(project).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// The only unique constraint reachable from a fresh insert is
		// join_code: the owner member row and file rows are new.
		return models.ErrJoinCodeTaken
	}
	return err
}

// FindByID retrieves a live project with members (in join order),
// files and tasks loaded.
func (r *ProjectRepository) FindByID(id string) (models.Project, error) {
	return r.findOne("id = ?", id)
}

// FindByJoinCode resolves a join code to a live project. Soft-deleted
// projects are excluded by the default scope, so a burned code resolves
// to nothing.
func (r *ProjectRepository) FindByJoinCode(code string) (models.Project, error) {
	return r.findOne("join_code = ?", code)
}

func (r *ProjectRepository) findOne(query string, arg string) (models.Project, error) {
	var project models.Project
	result := r.db.
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Members.User").
		Preload("Files").
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&project, query, arg)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return models.Project{}, models.ErrProjectNotFound
	}
	return project, result.Error
}

// ListByMember retrieves all live projects the user is a member of.
func (r *ProjectRepository) ListByMember(userID string) ([]models.Project, error) {
	var projects []models.Project
	result := r.db.
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", userID).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Members.User").
		Preload("Files").
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Order("projects.created_at DESC").
		Find(&projects)
	return projects, result.Error
}

// AddMember performs the admission as one conditional update. The
// member_count increment takes the project row lock and re-evaluates
// "member_count < team_size" after acquiring it, so two concurrent
// admissions can never both observe the same pre-commit count. The
// composite unique index on (project_id, user_id) backstops duplicate
// membership; a duplicate rolls the increment back.
func (r *ProjectRepository) AddMember(projectID, userID string) (models.Project, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			`UPDATE projects
			 SET member_count = member_count + 1, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ? AND deleted_at IS NULL AND member_count < team_size`,
			projectID,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Rejected at commit time: missing project, full team, or
			// a caller that is already in a full team. Membership is
			// checked first so AlreadyMember wins over CapacityReached.
			var project models.Project
			if err := tx.First(&project, "id = ?", projectID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.ErrProjectNotFound
				}
				return err
			}
			var count int64
			if err := tx.Model(&models.ProjectMember{}).
				Where("project_id = ? AND user_id = ?", projectID, userID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return models.ErrAlreadyMember
			}
			return models.ErrCapacityReached
		}

		member := models.ProjectMember{ProjectID: projectID, UserID: userID}
		if err := tx.Create(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.ErrAlreadyMember
			}
			return err
		}
		return nil
	})
	if err != nil {
		return models.Project{}, err
	}
	return r.FindByID(projectID)
}

// AppendTask appends a task to the project's task sequence. The task
// row insert is atomic; creation order is the append order.
func (r *ProjectRepository) AppendTask(projectID string, task *models.Task) error {
	var exists int64
	if err := r.db.Model(&models.Project{}).Where("id = ?", projectID).Count(&exists).Error; err != nil {
		return err
	}
	if exists == 0 {
		return models.ErrProjectNotFound
	}
	task.ProjectID = projectID
	return r.db.Create(task).Error
}

// Delete soft deletes the project. The row, and with it the join_code
// reservation, survives: deleted codes are never reallocated.
func (r *ProjectRepository) Delete(id string) error {
	result := r.db.Delete(&models.Project{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrProjectNotFound
	}
	return nil
}
