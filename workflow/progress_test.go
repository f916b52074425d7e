package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deependr20/hrms-sub001/constants"
	"github.com/deependr20/hrms-sub001/httperr"
	"github.com/deependr20/hrms-sub001/models"
)

func TestUpdateProgress_DerivesStatus(t *testing.T) {
	task := &models.Task{Status: constants.TaskStatusAssigned}

	UpdateProgress(task, 40, 1, "")
	assert.Equal(t, 40, task.Progress)
	assert.Equal(t, constants.TaskStatusInProgress, task.Status)

	UpdateProgress(task, 0, 1, "")
	assert.Equal(t, constants.TaskStatusAssigned, task.Status)

	// 100 moves to review, never straight to completed.
	UpdateProgress(task, 100, 1, "")
	assert.Equal(t, constants.TaskStatusReview, task.Status)
	assert.Equal(t, 100, task.Progress)
}

func TestUpdateProgress_ClampsAndRecordsHistory(t *testing.T) {
	task := &models.Task{Status: constants.TaskStatusAssigned}

	UpdateProgress(task, 150, 1, "pushed hard")
	assert.Equal(t, 100, task.Progress)

	UpdateProgress(task, -5, 1, "")
	assert.Equal(t, 0, task.Progress)

	assert.Len(t, task.StatusHistory, 2)
}

func TestComplete_StampsFieldsAndForcesProgress(t *testing.T) {
	est := 10.0
	task := &models.Task{Status: constants.TaskStatusReview, Progress: 80, EstimatedHours: &est}
	require.NoError(t, AddTimeSpent(task, 2, 300, "", false))

	require.NoError(t, Complete(task, 2, "done", "report.pdf"))

	assert.Equal(t, constants.TaskStatusCompleted, task.Status)
	assert.Equal(t, 100, task.Progress)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, uint(2), *task.CompletedByID)
	assert.Equal(t, "report.pdf", task.Deliverables)
	require.NotNil(t, task.Metrics.Efficiency)
	assert.InDelta(t, 200.0, *task.Metrics.Efficiency, 0.001)

	// Terminal: a second completion is rejected.
	err := Complete(task, 2, "", "")
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))
}

func TestSetStatus_TerminalIsFinal(t *testing.T) {
	task := &models.Task{Status: constants.TaskStatusInProgress}
	require.NoError(t, SetStatus(task, constants.TaskStatusCancelled, 1, "descoped"))
	assert.Equal(t, constants.TaskStatusCancelled, task.Status)

	err := SetStatus(task, constants.TaskStatusInProgress, 1, "")
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))
}

func TestAddTimeEntry_FoldsActualHours(t *testing.T) {
	est := 2.0
	task := &models.Task{Status: constants.TaskStatusInProgress, EstimatedHours: &est}

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, AddTimeEntry(task, 2, start, start.Add(90*time.Minute), "impl", true))
	require.NoError(t, AddTimeEntry(task, 2, start, start.Add(30*time.Minute), "review", false))

	assert.Equal(t, 120, task.Metrics.TimeSpentMinutes)
	assert.InDelta(t, 2.0, task.ActualHours, 0.001)
	require.NotNil(t, task.Metrics.Efficiency)
	assert.InDelta(t, 100.0, *task.Metrics.Efficiency, 0.001)
}

func TestAddTimeEntry_NonPositiveDurationLeavesTaskUnmodified(t *testing.T) {
	task := &models.Task{Status: constants.TaskStatusInProgress}

	start := time.Now()
	err := AddTimeEntry(task, 2, start, start.Add(-time.Hour), "backwards", false)
	require.Error(t, err)
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))
	assert.Empty(t, task.TimeEntries)
	assert.Zero(t, task.ActualHours)
	assert.Zero(t, task.Metrics.TimeSpentMinutes)
}
