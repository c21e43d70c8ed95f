package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/teamforge-api/models"
	"github.com/teamforge-api/repositories"
)

type testEnv struct {
	projects *repositories.MemoryProjectStore
	history  *repositories.MemoryHistoryStore
	recorder *HistoryRecorder
	service  *ProjectService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	projects := repositories.NewMemoryProjectStore()
	history := repositories.NewMemoryHistoryStore()
	recorder := NewHistoryRecorder(history)
	return &testEnv{
		projects: projects,
		history:  history,
		recorder: recorder,
		service:  NewProjectService(projects, recorder),
	}
}

func testPrincipal(id string) models.Principal {
	return models.Principal{ID: id, Username: "user-" + id, Email: id + "@example.com"}
}

func validInput(name string) CreateProjectInput {
	return CreateProjectInput{
		Name:        name,
		Description: "a shared workspace",
		TeamSize:    3,
		Files: []models.ProjectFile{
			{Name: "spec.pdf", Size: 1024, ContentType: "application/pdf", Path: "uploads/1-spec.pdf"},
		},
	}
}

func TestCreateProject_Validation(t *testing.T) {
	env := newTestEnv(t)
	owner := testPrincipal("owner")

	cases := []struct {
		name   string
		mutate func(*CreateProjectInput)
	}{
		{"missing name", func(in *CreateProjectInput) { in.Name = "" }},
		{"missing description", func(in *CreateProjectInput) { in.Description = "" }},
		{"zero team size", func(in *CreateProjectInput) { in.TeamSize = 0 }},
		{"negative team size", func(in *CreateProjectInput) { in.TeamSize = -1 }},
		{"no files", func(in *CreateProjectInput) { in.Files = nil }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput("p")
			tc.mutate(&input)
			_, err := env.service.CreateProject(owner, input)
			var validationErr *models.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateProject_OwnerIsFirstMember(t *testing.T) {
	env := newTestEnv(t)
	owner := testPrincipal("owner")

	project, err := env.service.CreateProject(owner, validInput("alpha"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if project.OwnerID != owner.ID {
		t.Errorf("owner ID = %q, want %q", project.OwnerID, owner.ID)
	}
	if len(project.Members) != 1 || project.Members[0].UserID != owner.ID {
		t.Errorf("members = %+v, want exactly the owner", project.Members)
	}
	if project.MemberCount != 1 {
		t.Errorf("member count = %d, want 1", project.MemberCount)
	}
	if len(project.JoinCode) != models.JoinCodeLength {
		t.Errorf("join code %q, want length %d", project.JoinCode, models.JoinCodeLength)
	}
}

func TestCreateProject_JoinCodesNeverRepeat(t *testing.T) {
	env := newTestEnv(t)
	owner := testPrincipal("owner")

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		project, err := env.service.CreateProject(owner, validInput(fmt.Sprintf("p-%d", i)))
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if seen[project.JoinCode] {
			t.Fatalf("join code %q issued twice", project.JoinCode)
		}
		seen[project.JoinCode] = true
	}
}

// alwaysCollidingStore reports every drawn join code as taken, forcing
// the allocator through its retry bound.
type alwaysCollidingStore struct {
	ProjectStore
	attempts int
}

func (s *alwaysCollidingStore) Create(*models.Project) error {
	s.attempts++
	return models.ErrJoinCodeTaken
}

func TestCreateProject_AllocatorRetryBound(t *testing.T) {
	store := &alwaysCollidingStore{}
	history := repositories.NewMemoryHistoryStore()
	recorder := NewHistoryRecorder(history)
	service := NewProjectService(store, recorder)

	_, err := service.CreateProject(testPrincipal("owner"), validInput("p"))
	if !errors.Is(err, models.ErrJoinCodeExhausted) {
		t.Fatalf("expected ErrJoinCodeExhausted, got %v", err)
	}
	if store.attempts != maxJoinCodeAttempts {
		t.Errorf("allocator made %d attempts, want %d", store.attempts, maxJoinCodeAttempts)
	}
}

func TestJoinProject_ConcurrentAdmissionRespectsTeamSize(t *testing.T) {
	env := newTestEnv(t)
	owner := testPrincipal("owner")

	input := validInput("race")
	input.TeamSize = 2
	project, err := env.service.CreateProject(owner, input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// One seat left. Five distinct principals race for it.
	const contenders = 5
	var wg sync.WaitGroup
	results := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = env.service.JoinProject(testPrincipal(fmt.Sprintf("joiner-%d", i)), project.JoinCode)
		}(i)
	}
	wg.Wait()

	succeeded, capacity := 0, 0
	for i, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, models.ErrCapacityReached):
			capacity++
		default:
			t.Errorf("joiner %d: unexpected error %v", i, err)
		}
	}
	if succeeded != 1 {
		t.Errorf("%d admissions succeeded, want exactly 1", succeeded)
	}
	if capacity != contenders-1 {
		t.Errorf("%d joiners saw CapacityReached, want %d", capacity, contenders-1)
	}

	final, err := env.projects.FindByID(project.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(final.Members) != 2 || final.MemberCount != 2 {
		t.Errorf("final member set %d (count %d), want exactly teamSize=2", len(final.Members), final.MemberCount)
	}
}

func TestJoinProject_AlreadyMemberIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	owner := testPrincipal("owner")
	joiner := testPrincipal("joiner")

	project, err := env.service.CreateProject(owner, validInput("p"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.service.JoinProject(joiner, project.JoinCode); err != nil {
		t.Fatalf("first join: %v", err)
	}

	_, err = env.service.JoinProject(joiner, project.JoinCode)
	if !errors.Is(err, models.ErrAlreadyMember) {
		t.Fatalf("second join: expected ErrAlreadyMember, got %v", err)
	}

	final, _ := env.projects.FindByID(project.ID)
	if len(final.Members) != 2 {
		t.Errorf("member set grew to %d on a repeated join", len(final.Members))
	}
}

func TestJoinProject_OwnerRejoinReportsAlreadyMember(t *testing.T) {
	env := newTestEnv(t)
	owner := testPrincipal("owner")

	// teamSize 1: the project is full and the owner is in it. The
	// rejoin must report membership, not capacity.
	input := validInput("solo")
	input.TeamSize = 1
	project, err := env.service.CreateProject(owner, input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = env.service.JoinProject(owner, project.JoinCode)
	if !errors.Is(err, models.ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}
}

func TestJoinProject_UnknownCode(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.JoinProject(testPrincipal("joiner"), "NOSUCH00")
	if !errors.Is(err, models.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}

	_, err = env.service.JoinProject(testPrincipal("joiner"), "")
	var validationErr *models.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error for empty code, got %v", err)
	}
}

func TestJoinProject_DeletedCodeStaysBurned(t *testing.T) {
	env := newTestEnv(t)
	owner := testPrincipal("owner")

	project, err := env.service.CreateProject(owner, validInput("ephemeral"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := env.service.DeleteProject(owner, project.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := env.service.JoinProject(testPrincipal("late"), project.JoinCode); !errors.Is(err, models.ErrProjectNotFound) {
		t.Fatalf("join after delete: expected ErrProjectNotFound, got %v", err)
	}

	// The code is reserved forever: a later create can never be issued it.
	for i := 0; i < 50; i++ {
		fresh, err := env.service.CreateProject(owner, validInput(fmt.Sprintf("fresh-%d", i)))
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if fresh.JoinCode == project.JoinCode {
			t.Fatalf("burned join code %q was reissued", project.JoinCode)
		}
	}
}

func TestAddTask_OwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	owner := testPrincipal("owner")
	member := testPrincipal("member")

	project, err := env.service.CreateProject(owner, validInput("tasks"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.service.JoinProject(member, project.JoinCode); err != nil {
		t.Fatalf("join: %v", err)
	}

	input := TaskInput{Title: "t", Description: "d", AssignedTo: member.ID}

	// A plain member is rejected and nothing is appended.
	if _, err := env.service.AddTask(member, project.ID, input); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("member addTask: expected ErrForbidden, got %v", err)
	}
	reloaded, _ := env.projects.FindByID(project.ID)
	if len(reloaded.Tasks) != 0 {
		t.Fatalf("tasks = %d after forbidden addTask, want 0", len(reloaded.Tasks))
	}

	// The owner succeeds and the task defaults to pending.
	task, err := env.service.AddTask(owner, project.ID, input)
	if err != nil {
		t.Fatalf("owner addTask: %v", err)
	}
	if task.Status != models.TaskStatusPending {
		t.Errorf("task status = %q, want %q", task.Status, models.TaskStatusPending)
	}

	reloaded, _ = env.projects.FindByID(project.ID)
	if len(reloaded.Tasks) != 1 || reloaded.Tasks[0].Title != "t" {
		t.Errorf("tasks = %+v, want the single appended task", reloaded.Tasks)
	}
}

func TestAddTask_AppendOrder(t *testing.T) {
	env := newTestEnv(t)
	owner := testPrincipal("owner")

	project, err := env.service.CreateProject(owner, validInput("ordered"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 0; i < 5; i++ {
		input := TaskInput{Title: fmt.Sprintf("task-%d", i), Description: "d", AssignedTo: "anyone"}
		if _, err := env.service.AddTask(owner, project.ID, input); err != nil {
			t.Fatalf("addTask %d: %v", i, err)
		}
	}

	reloaded, _ := env.projects.FindByID(project.ID)
	if len(reloaded.Tasks) != 5 {
		t.Fatalf("tasks = %d, want 5", len(reloaded.Tasks))
	}
	for i, task := range reloaded.Tasks {
		if want := fmt.Sprintf("task-%d", i); task.Title != want {
			t.Errorf("task %d = %q, want %q (creation order)", i, task.Title, want)
		}
	}
}

func TestAddTask_Validation(t *testing.T) {
	env := newTestEnv(t)
	owner := testPrincipal("owner")

	project, err := env.service.CreateProject(owner, validInput("p"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	cases := []TaskInput{
		{Title: "", Description: "d", AssignedTo: "a"},
		{Title: "t", Description: "", AssignedTo: "a"},
		{Title: "t", Description: "d", AssignedTo: ""},
	}
	for i, input := range cases {
		_, err := env.service.AddTask(owner, project.ID, input)
		var validationErr *models.ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("case %d: expected validation error, got %v", i, err)
		}
	}

	reloaded, _ := env.projects.FindByID(project.ID)
	if len(reloaded.Tasks) != 0 {
		t.Errorf("tasks appended despite validation failures: %d", len(reloaded.Tasks))
	}

	if _, err := env.service.AddTask(owner, "no-such-project", TaskInput{Title: "t", Description: "d", AssignedTo: "a"}); !errors.Is(err, models.ErrProjectNotFound) {
		t.Errorf("missing project: expected ErrProjectNotFound, got %v", err)
	}
}

func TestDeleteProject_OwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	owner := testPrincipal("owner")
	member := testPrincipal("member")

	project, err := env.service.CreateProject(owner, validInput("keep"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.service.JoinProject(member, project.JoinCode); err != nil {
		t.Fatalf("join: %v", err)
	}

	if err := env.service.DeleteProject(member, project.ID); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("member delete: expected ErrForbidden, got %v", err)
	}

	// Still alive and still joinable by its code.
	if _, err := env.projects.FindByID(project.ID); err != nil {
		t.Fatalf("project vanished after forbidden delete: %v", err)
	}
	if _, err := env.service.JoinProject(testPrincipal("third"), project.JoinCode); err != nil {
		t.Fatalf("project not joinable after forbidden delete: %v", err)
	}

	if err := env.service.DeleteProject(owner, project.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := env.projects.FindByID(project.ID); !errors.Is(err, models.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound after owner delete, got %v", err)
	}
}

func TestListProjects_MembershipScoped(t *testing.T) {
	env := newTestEnv(t)
	owner := testPrincipal("owner")
	other := testPrincipal("other")

	mine, err := env.service.CreateProject(owner, validInput("mine"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.service.CreateProject(other, validInput("theirs")); err != nil {
		t.Fatalf("create: %v", err)
	}

	projects, err := env.service.ListProjects(owner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(projects) != 1 || projects[0].ID != mine.ID {
		t.Errorf("list = %+v, want only the owner's project", projects)
	}
}

func TestHistory_ConcurrentOperationsLoseNoEntries(t *testing.T) {
	env := newTestEnv(t)
	principal := testPrincipal("busy")

	const operations = 10
	var wg sync.WaitGroup
	for i := 0; i < operations; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := env.service.CreateProject(principal, validInput(fmt.Sprintf("burst-%d", i))); err != nil {
				t.Errorf("create %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()
	env.recorder.Close()

	entries, err := env.history.FindByUser(principal.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != operations {
		t.Fatalf("history has %d entries after %d operations, want exactly %d", len(entries), operations, operations)
	}
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Text, "Created project: ") {
			t.Errorf("unexpected history text %q", entry.Text)
		}
	}
}
