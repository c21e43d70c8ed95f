package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teamforge-api/dto"
	"github.com/teamforge-api/lib/storage"
	"github.com/teamforge-api/middleware"
	"github.com/teamforge-api/models"
	"github.com/teamforge-api/services"
)

// ProjectController handles project collaboration API endpoints
type ProjectController struct {
	projectService *services.ProjectService
	uploads        *storage.LocalStorage
}

// NewProjectController creates a new project controller
func NewProjectController(projectService *services.ProjectService, uploads *storage.LocalStorage) *ProjectController {
	return &ProjectController{projectService: projectService, uploads: uploads}
}

// RegisterRoutes registers project routes
func (c *ProjectController) RegisterRoutes(router *gin.RouterGroup) {
	projects := router.Group("/projects")
	projects.Use(middleware.AuthMiddleware())
	{
		projects.GET("", c.ListProjects)
		projects.POST("", c.CreateProject)
		projects.POST("/join", c.JoinProject)
		projects.POST("/:id/tasks", c.AddTask)
		projects.DELETE("/:id", c.DeleteProject)
	}
}

// ListProjects returns the projects the caller is a member of
func (c *ProjectController) ListProjects(ctx *gin.Context) {
	principal, ok := principalFrom(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "User not authenticated"})
		return
	}

	projects, err := c.projectService.ListProjects(principal)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch projects",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   projects,
	})
}

// CreateProject creates a project from a multipart form: name,
// description, teamSize fields plus one or more file uploads.
func (c *ProjectController) CreateProject(ctx *gin.Context) {
	principal, ok := principalFrom(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "User not authenticated"})
		return
	}

	name := ctx.PostForm("name")
	description := ctx.PostForm("description")
	teamSizeRaw := ctx.PostForm("teamSize")
	if name == "" || description == "" || teamSizeRaw == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Name, description, and team size are required",
		})
		return
	}

	teamSize, err := strconv.Atoi(teamSizeRaw)
	if err != nil || teamSize <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Team size must be a positive number",
		})
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid multipart form",
		})
		return
	}
	uploads := form.File["files"]
	if len(uploads) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "At least one file is required",
		})
		return
	}

	files := make([]models.ProjectFile, 0, len(uploads))
	for _, upload := range uploads {
		file, err := c.uploads.Save(upload)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Failed to store uploaded file",
			})
			return
		}
		files = append(files, file)
	}

	project, err := c.projectService.CreateProject(principal, services.CreateProjectInput{
		Name:        name,
		Description: description,
		TeamSize:    teamSize,
		Files:       files,
	})
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Project created",
		"data":    project,
	})
}

// JoinProject admits the caller into the project behind a join code
func (c *ProjectController) JoinProject(ctx *gin.Context) {
	principal, ok := principalFrom(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "User not authenticated"})
		return
	}

	var req dto.JoinProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Join code is required",
		})
		return
	}

	project, err := c.projectService.JoinProject(principal, req.JoinCode)
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   project,
	})
}

// AddTask appends a task to a project (owner only)
func (c *ProjectController) AddTask(ctx *gin.Context) {
	principal, ok := principalFrom(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "User not authenticated"})
		return
	}

	projectID := ctx.Param("id")
	var req dto.CreateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Title, description, and assignedTo are required",
		})
		return
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := parseDueDate(req.DueDate)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Invalid due date",
			})
			return
		}
		dueDate = &parsed
	}

	task, err := c.projectService.AddTask(principal, projectID, services.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		DueDate:     dueDate,
	})
	if err != nil {
		ctx.JSON(statusForError(err), gin.H{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Task added",
		"data":    task,
	})
}

// DeleteProject deletes a project. Non-owners get the same 404 as a
// missing project so they cannot probe for existence.
func (c *ProjectController) DeleteProject(ctx *gin.Context) {
	principal, ok := principalFrom(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "User not authenticated"})
		return
	}

	projectID := ctx.Param("id")
	err := c.projectService.DeleteProject(principal, projectID)
	if err != nil {
		if errors.Is(err, models.ErrForbidden) || errors.Is(err, models.ErrProjectNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Project not found or not authorized",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to delete project",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Project deleted",
	})
}

func parseDueDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
