package dto

// JoinProjectRequest carries the opaque join code of the project the
// caller wants to be admitted into.
type JoinProjectRequest struct {
	JoinCode string `json:"joinCode" binding:"required"`
}

// CreateTaskRequest represents the request payload for adding a task.
// AssignedTo is deliberately free text: the system allows assignment to
// placeholders that are not members of the project. DueDate accepts
// RFC 3339 or a plain YYYY-MM-DD date.
type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	AssignedTo  string `json:"assignedTo" binding:"required"`
	DueDate     string `json:"dueDate"`
}
