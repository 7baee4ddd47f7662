package actions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmckee/teamdash/internal/models"
	"github.com/kmckee/teamdash/internal/store"
)

func validTaskInput() TaskInput {
	return TaskInput{
		Title:      "wire the parser",
		ProjectID:  1,
		AssignedTo: 5,
		Priority:   models.PriorityMedium,
		Category:   models.CategoryDevelopment,
		Deadline:   futureDate(),
	}
}

func TestCreateTaskValid(t *testing.T) {
	a, gw, st := newTestActions(t)
	seedMembers(st, models.Member{ID: 5, Name: "ana", Role: models.RoleMember})

	require.NoError(t, a.CreateTask(validTaskInput()))

	assert.Equal(t, 1, gw.calls["CreateTask"])
	snap := st.Snapshot()
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, models.TaskPending, snap.Tasks[0].Status)
	assert.Equal(t, int64(5), snap.Tasks[0].AssignedTo)
}

func TestCreateTaskEstimatedHoursBoundaries(t *testing.T) {
	tests := []struct {
		hours  int
		wantOK bool
	}{
		{0, false},
		{1, true},
		{200, true},
		{201, false},
		{250, false},
	}
	for _, tt := range tests {
		a, gw, st := newTestActions(t)
		seedMembers(st, models.Member{ID: 5, Name: "ana", Role: models.RoleMember})

		in := validTaskInput()
		hours := tt.hours
		in.EstimatedHours = &hours

		err := a.CreateTask(in)
		if tt.wantOK {
			assert.NoError(t, err, "hours %d", tt.hours)
			assert.Equal(t, 1, gw.calls["CreateTask"], "hours %d", tt.hours)
		} else {
			var fieldErrs FieldErrors
			require.ErrorAs(t, err, &fieldErrs, "hours %d", tt.hours)
			assert.Contains(t, fieldErrs, "estimatedHours")
			assert.Zero(t, gw.totalCalls(), "hours %d", tt.hours)
		}
	}
}

func TestCreateTaskNilHoursAllowed(t *testing.T) {
	a, gw, st := newTestActions(t)
	seedMembers(st, models.Member{ID: 5, Name: "ana", Role: models.RoleMember})

	in := validTaskInput()
	in.EstimatedHours = nil

	require.NoError(t, a.CreateTask(in))
	assert.Equal(t, 1, gw.calls["CreateTask"])
}

func TestCreateTaskDeadlineTodayRejected(t *testing.T) {
	a, gw, _ := newTestActions(t)

	in := validTaskInput()
	// Same calendar day as the fixed test clock, later hour. The
	// comparison is date-granular, so this still counts as today.
	in.Deadline = time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)

	err := a.CreateTask(in)

	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "deadline")
	assert.Zero(t, gw.totalCalls())
}

func TestCreateTaskTomorrowAccepted(t *testing.T) {
	a, _, st := newTestActions(t)
	seedMembers(st, models.Member{ID: 5, Name: "ana", Role: models.RoleMember})

	in := validTaskInput()
	in.Deadline = time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, a.CreateTask(in))
}

func TestCreateTaskMissingTitleAndAssignee(t *testing.T) {
	a, gw, _ := newTestActions(t)

	err := a.CreateTask(TaskInput{Deadline: futureDate()})

	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "title")
	assert.Contains(t, fieldErrs, "assignedTo")
	assert.Zero(t, gw.totalCalls())
}

func TestUpdateTaskUnknownId(t *testing.T) {
	a, _, _ := newTestActions(t)

	err := a.UpdateTask(99, validTaskInput())

	assert.ErrorIs(t, err, errUnknownTask)
}

func TestUpdateTaskKeepsStatusAndProgress(t *testing.T) {
	a, _, st := newTestActions(t)
	st.Dispatch(store.SetTasks{Tasks: []models.Task{{
		ID: 3, Title: "old", AssignedTo: 5, Status: models.TaskInProgress, Progress: 50,
	}}})

	in := validTaskInput()
	in.Title = "renamed"

	require.NoError(t, a.UpdateTask(3, in))

	snap := st.Snapshot()
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, "renamed", snap.Tasks[0].Title)
	assert.Equal(t, models.TaskInProgress, snap.Tasks[0].Status)
	assert.Equal(t, 50, snap.Tasks[0].Progress)
}

func TestStepTaskProgress(t *testing.T) {
	tests := []struct {
		name      string
		start     int
		direction int
		want      int
	}{
		{"up", 25, 1, 50},
		{"down", 50, -1, 25},
		{"ceiling", 90, 1, 100},
		{"floor", 10, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, gw, st := newTestActions(t)
			st.Dispatch(store.SetTasks{Tasks: []models.Task{{ID: 1, Title: "t", Progress: tt.start}}})

			require.NoError(t, a.StepTaskProgress(1, tt.direction))

			assert.Equal(t, 1, gw.calls["UpdateTaskProgress"])
			assert.Equal(t, tt.want, st.Snapshot().Tasks[0].Progress)
		})
	}
}

func TestStepTaskProgressUnknownTask(t *testing.T) {
	a, gw, _ := newTestActions(t)

	err := a.StepTaskProgress(99, 1)

	assert.ErrorIs(t, err, errUnknownTask)
	assert.Zero(t, gw.totalCalls())
}

func TestAssignTaskUpdatesStore(t *testing.T) {
	a, gw, st := newTestActions(t)
	st.Dispatch(store.SetTasks{Tasks: []models.Task{{ID: 2, Title: "t", AssignedTo: 1}}})

	require.NoError(t, a.AssignTask(2, 9))

	assert.Equal(t, 1, gw.calls["AssignTask"])
	assert.Equal(t, int64(9), st.Snapshot().Tasks[0].AssignedTo)
}

func TestCommentTaskUsesActor(t *testing.T) {
	a, gw, st := newTestActions(t)
	seedMembers(st, models.Member{ID: 7, Name: "mia", Role: models.RoleManager})

	require.NoError(t, a.CommentTask(1, "looks good"))

	assert.Equal(t, 1, gw.calls["CreateTaskComment"])
}
