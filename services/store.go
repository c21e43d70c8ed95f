package services

import "github.com/teamforge-api/models"

// ProjectStore is the persistence contract the collaboration engine is
// written against. Every mutation is a single atomic conditional
// operation: the predicate and the write are evaluated together at
// commit time, never as a read followed by an independent write.
type ProjectStore interface {
	// Create persists a project together with its owner membership and
	// file references. Returns models.ErrJoinCodeTaken when the join
	// code is already reserved, including by deleted projects.
	Create(project *models.Project) error

	// FindByID returns a live project with members (in join order),
	// files and tasks loaded. Deleted projects report
	// models.ErrProjectNotFound.
	FindByID(id string) (models.Project, error)

	// FindByJoinCode resolves a join code to a live project.
	FindByJoinCode(code string) (models.Project, error)

	// ListByMember returns the live projects the user belongs to.
	ListByMember(userID string) ([]models.Project, error)

	// AddMember admits the user if and only if they are not already a
	// member and the member set is below team size, both evaluated
	// against the record state at the moment of the write. On success
	// the updated project is returned. Failures: ErrAlreadyMember,
	// ErrCapacityReached, ErrProjectNotFound. A rejected admission is
	// not retried by the store.
	AddMember(projectID, userID string) (models.Project, error)

	// AppendTask appends the task to the project's task sequence.
	AppendTask(projectID string, task *models.Task) error

	// Delete removes the project. The join code stays reserved.
	Delete(id string) error
}

// HistoryStore persists append-only audit history. Append must be
// atomic per user: concurrent appends never lose entries.
type HistoryStore interface {
	Append(entry *models.HistoryEntry) error
	FindByUser(userID string) ([]models.HistoryEntry, error)
}

// UserStore is the account storage consumed by the auth service.
type UserStore interface {
	// Create persists a new user; models.ErrEmailTaken on a duplicate
	// email.
	Create(user *models.User) error
	FindByEmail(email string) (models.User, error)
	FindByID(id string) (models.User, error)
}
