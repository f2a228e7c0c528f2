package task

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/taskdeck/taskdeck/internal/access"
	"github.com/taskdeck/taskdeck/internal/realtime"
	"github.com/taskdeck/taskdeck/internal/user"
	"github.com/taskdeck/taskdeck/pkg/cerr"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Notifier receives task lifecycle transitions and derives whatever
// notifications they imply. The task store never waits on it and never
// fails because of it.
type Notifier interface {
	TaskCreated(ctx context.Context, t *Task, actorID string)
	TaskUpdated(ctx context.Context, before, after *Task, actorID string)
}

// NopNotifier derives nothing.
type NopNotifier struct{}

func (NopNotifier) TaskCreated(context.Context, *Task, string)        {}
func (NopNotifier) TaskUpdated(context.Context, *Task, *Task, string) {}

// SummaryResolver resolves an identity id to its summary for task views.
type SummaryResolver interface {
	Resolve(ctx context.Context, id string) *user.Summary
}

// View is the task representation returned to callers and carried by
// task events, with creator/assignee identities resolved.
type View struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	DueDate     *time.Time    `json:"dueDate,omitempty"`
	Priority    Priority      `json:"priority"`
	Status      Status        `json:"status"`
	Creator     *user.Summary `json:"creator"`
	Assignee    *user.Summary `json:"assignee,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type CreateRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	DueDate      *time.Time `json:"dueDate"`
	Priority     Priority   `json:"priority"`
	Status       Status     `json:"status"`
	AssignedToID string     `json:"assignedToId"`
}

// UpdateRequest is a partial patch; nil fields are left untouched. An
// empty AssignedToID unassigns the task.
type UpdateRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	DueDate      *time.Time `json:"dueDate"`
	Priority     *Priority  `json:"priority"`
	Status       *Status    `json:"status"`
	AssignedToID *string    `json:"assignedToId"`
}

type ListRequest struct {
	Status   Status
	Priority Priority
	Search   string
	Page     int
	Limit    int
}

type Page struct {
	Items      []*View `json:"items"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"totalPages"`
}

type Service struct {
	repo      Repository
	users     SummaryResolver
	publisher realtime.Publisher
	notifier  Notifier
}

func NewService(repo Repository, users SummaryResolver, publisher realtime.Publisher, notifier Notifier) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		publisher: publisher,
		notifier:  notifier,
	}
}

// Create validates and persists a new task owned by the actor, then
// broadcasts task:created and lets the notifier handle the assignment.
func (s *Service) Create(ctx context.Context, actorID string, req CreateRequest) (*View, error) {
	title := strings.TrimSpace(req.Title)

	vErr := cerr.NewValidationError("invalid task")
	if title == "" {
		vErr.AddViolation("title", "must not be empty")
	} else if len(title) > maxTitleLen {
		vErr.AddViolation("title", "must be at most 200 characters")
	}
	if len(req.Description) > maxDescriptionLen {
		vErr.AddViolation("description", "must be at most 1000 characters")
	}
	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	} else if !priority.Valid() {
		vErr.AddViolation("priority", "must be one of LOW, MEDIUM, HIGH, URGENT")
	}
	status := req.Status
	if status == "" {
		status = StatusTodo
	} else if !status.Valid() {
		vErr.AddViolation("status", "must be one of TODO, IN_PROGRESS, REVIEW, COMPLETED")
	}
	if len(vErr.Details) > 0 {
		return nil, vErr
	}

	now := time.Now()
	t := &Task{
		ID:           ulid.Make().String(),
		Title:        title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		Priority:     priority,
		Status:       status,
		CreatorID:    actorID,
		AssignedToID: req.AssignedToID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	view := s.view(ctx, t)
	s.publisher.Broadcast(realtime.Event{Type: realtime.EventTaskCreated, Payload: view})
	s.notifier.TaskCreated(ctx, t, actorID)
	return view, nil
}

// List returns the actor's access-scoped, filtered task page,
// newest-created-first. Unauthorized rows are excluded, never an error.
func (s *Service) List(ctx context.Context, actorID string, req ListRequest) (*Page, error) {
	vErr := cerr.NewValidationError("invalid filter")
	if req.Status != "" && !req.Status.Valid() {
		vErr.AddViolation("status", "must be one of TODO, IN_PROGRESS, REVIEW, COMPLETED")
	}
	if req.Priority != "" && !req.Priority.Valid() {
		vErr.AddViolation("priority", "must be one of LOW, MEDIUM, HIGH, URGENT")
	}
	if len(vErr.Details) > 0 {
		return nil, vErr
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	tasks, err := s.repo.Find(ctx, Query{
		MemberID: actorID,
		Status:   req.Status,
		Priority: req.Priority,
		Search:   req.Search,
	})
	if err != nil {
		return nil, err
	}

	total := len(tasks)
	totalPages := (total + limit - 1) / limit
	offset := (page - 1) * limit
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return &Page{
		Items:      s.views(ctx, tasks[offset:end]),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// Get distinguishes NotFound from Authorization: a missing id fails with
// NotFound, an existing task the actor has no relationship to fails with
// PermissionDenied.
func (s *Service) Get(ctx context.Context, actorID, id string) (*View, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanAccessTask(t.CreatorID, t.AssignedToID, actorID) {
		return nil, cerr.NewError(cerr.PermissionDenied, "no access to task", nil)
	}
	return s.view(ctx, t), nil
}

// Update applies a partial patch to an accessible task. UpdatedAt always
// advances strictly; the creator never changes.
func (s *Service) Update(ctx context.Context, actorID, id string, req UpdateRequest) (*View, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanModifyTask(t.CreatorID, t.AssignedToID, actorID) {
		return nil, cerr.NewError(cerr.PermissionDenied, "no access to task", nil)
	}

	vErr := cerr.NewValidationError("invalid task")
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			vErr.AddViolation("title", "must not be empty")
		} else if len(title) > maxTitleLen {
			vErr.AddViolation("title", "must be at most 200 characters")
		}
	}
	if req.Description != nil && len(*req.Description) > maxDescriptionLen {
		vErr.AddViolation("description", "must be at most 1000 characters")
	}
	if req.Priority != nil && !req.Priority.Valid() {
		vErr.AddViolation("priority", "must be one of LOW, MEDIUM, HIGH, URGENT")
	}
	if req.Status != nil && !req.Status.Valid() {
		vErr.AddViolation("status", "must be one of TODO, IN_PROGRESS, REVIEW, COMPLETED")
	}
	if len(vErr.Details) > 0 {
		return nil, vErr
	}

	before := *t
	if req.Title != nil {
		t.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.DueDate != nil {
		t.DueDate = req.DueDate
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
	if req.AssignedToID != nil {
		t.AssignedToID = *req.AssignedToID
	}

	now := time.Now()
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Millisecond)
	}
	t.UpdatedAt = now

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	view := s.view(ctx, t)
	s.publisher.Broadcast(realtime.Event{Type: realtime.EventTaskUpdated, Payload: view})
	s.notifier.TaskUpdated(ctx, &before, t, actorID)
	return view, nil
}

// Delete removes a task. Only the creator may delete; the event carries
// just the id, and no notifications are generated.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !access.CanDeleteTask(t.CreatorID, actorID) {
		return cerr.NewError(cerr.PermissionDenied, "only the creator may delete a task", nil)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Broadcast(realtime.Event{
		Type:    realtime.EventTaskDeleted,
		Payload: map[string]string{"id": id},
	})
	return nil
}

// ListAssigned returns tasks assigned to the actor, highest priority
// first, then earliest due date, tasks without a due date last.
func (s *Service) ListAssigned(ctx context.Context, actorID string) ([]*View, error) {
	tasks, err := s.repo.Find(ctx, Query{AssignedToID: actorID})
	if err != nil {
		return nil, err
	}
	sortTasks(tasks, func(a, b *Task) bool {
		if a.Priority.rank() != b.Priority.rank() {
			return a.Priority.rank() > b.Priority.rank()
		}
		return dueBefore(a, b)
	})
	return s.views(ctx, tasks), nil
}

// ListCreated returns tasks created by the actor, newest first.
func (s *Service) ListCreated(ctx context.Context, actorID string) ([]*View, error) {
	tasks, err := s.repo.Find(ctx, Query{CreatorID: actorID})
	if err != nil {
		return nil, err
	}
	return s.views(ctx, tasks), nil
}

// ListOverdue returns the actor's stakeholder tasks past their due date
// and not completed, earliest due date first.
func (s *Service) ListOverdue(ctx context.Context, actorID string) ([]*View, error) {
	now := time.Now()
	tasks, err := s.repo.Find(ctx, Query{
		MemberID:      actorID,
		DueBefore:     &now,
		ExcludeStatus: StatusCompleted,
	})
	if err != nil {
		return nil, err
	}
	sortTasks(tasks, dueBefore)
	return s.views(ctx, tasks), nil
}

func sortTasks(tasks []*Task, less func(a, b *Task) bool) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return less(tasks[i], tasks[j])
	})
}

func dueBefore(a, b *Task) bool {
	switch {
	case a.DueDate == nil:
		return false
	case b.DueDate == nil:
		return true
	default:
		return a.DueDate.Before(*b.DueDate)
	}
}

func (s *Service) view(ctx context.Context, t *Task) *View {
	v := &View{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Status:      t.Status,
		Creator:     s.users.Resolve(ctx, t.CreatorID),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.AssignedToID != "" {
		v.Assignee = s.users.Resolve(ctx, t.AssignedToID)
	}
	return v
}

func (s *Service) views(ctx context.Context, tasks []*Task) []*View {
	views := make([]*View, len(tasks))
	for i, t := range tasks {
		views[i] = s.view(ctx, t)
	}
	return views
}
