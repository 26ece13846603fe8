// ABOUTME: Shared test helpers for sync package tests.
// ABOUTME: Provides store setup and small document builders.

package sync

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harperreed/coach/internal/models"
	"github.com/harperreed/coach/internal/storage"
)

// setupTestService creates a sync service over a fresh store.
func setupTestService(t *testing.T) (*Service, *storage.DB) {
	t.Helper()

	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return NewService(store), store
}

// testPlan builds a minimal strict plan document.
func testPlan(dayName string) *models.PlanDocument {
	return &models.PlanDocument{
		DayName: dayName,
		Blocks: []models.Block{{
			BlockType: models.BlockStrength,
			Exercises: []models.Exercise{{
				ID:         "bench_1",
				Name:       "Bench Press",
				Type:       models.ExerciseStrength,
				TargetSets: models.Int(3),
			}},
		}},
	}
}

// testLog builds a log with one completed exercise and a session note.
func testLog(note string) *models.LogDocument {
	return &models.LogDocument{
		Feedback: models.SessionFeedback{GeneralNotes: note},
		Exercises: map[string]models.ExerciseEntry{
			"bench_1": {
				Completed: true,
				Sets: []models.SetEntry{{
					SetNum:    1,
					Weight:    models.Float64(135),
					Reps:      models.Int(8),
					Completed: true,
				}},
			},
		},
	}
}
