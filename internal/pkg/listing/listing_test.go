package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anirudhb/achievehub/internal/app/models"
)

func sampleAchievements() []models.Achievement {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return []models.Achievement{
		{
			ID:                1,
			StudentName:       "Ravi Kumar",
			StudentEmail:      "ravi@college.edu",
			Title:             "National Hackathon Winner",
			Category:          "Hackathon",
			Status:            models.StatusPending,
			StudentDepartment: "CSE",
			SubmittedAt:       base.Add(2 * time.Hour),
		},
		{
			ID:                2,
			StudentName:       "Anita Sharma",
			StudentEmail:      "anita@college.edu",
			Title:             "IEEE Paper Published",
			Category:          "Publication",
			Status:            models.StatusApproved,
			StudentDepartment: "ECE",
			SubmittedAt:       base.Add(1 * time.Hour),
		},
		{
			ID:          3,
			StudentName: "Vikram Rao",
			Title:       "State Chess Champion",
			Category:    "Sports",
			Status:      models.StatusApproved,
			// No department at all
			SubmittedAt: base.Add(3 * time.Hour),
		},
		{
			ID:                4,
			StudentName:       "Priya Nair",
			StudentEmail:      "priya@college.edu",
			Title:             "Hackathon Runner-up",
			Category:          "Hackathon",
			Status:            models.StatusRejected,
			Department:        "CSE",
			StudentDepartment: "",
			SubmittedAt:       base,
		},
	}
}

func TestFilterByStatus(t *testing.T) {
	list := sampleAchievements()

	t.Run("matches exact status", func(t *testing.T) {
		got := FilterByStatus(list, "approved")
		require.Len(t, got, 2)
		assert.Equal(t, int64(2), got[0].ID)
		assert.Equal(t, int64(3), got[1].ID)
	})

	t.Run("all bypasses the filter", func(t *testing.T) {
		assert.Len(t, FilterByStatus(list, StatusAll), 4)
	})

	t.Run("empty status bypasses the filter", func(t *testing.T) {
		assert.Len(t, FilterByStatus(list, ""), 4)
	})

	t.Run("unknown status matches nothing", func(t *testing.T) {
		assert.Empty(t, FilterByStatus(list, "archived"))
	})
}

func TestFilterByDepartment(t *testing.T) {
	list := sampleAchievements()

	t.Run("matches snapshot department", func(t *testing.T) {
		got := FilterByDepartment(list, "CSE")
		require.Len(t, got, 2)
		assert.Equal(t, int64(1), got[0].ID)
		// Falls back to the plain department column when no snapshot exists
		assert.Equal(t, int64(4), got[1].ID)
	})

	t.Run("unassigned bucket", func(t *testing.T) {
		got := FilterByDepartment(list, models.UnassignedDepartment)
		require.Len(t, got, 1)
		assert.Equal(t, int64(3), got[0].ID)
	})
}

func TestFilterByCategory(t *testing.T) {
	got := FilterByCategory(sampleAchievements(), "Hackathon")
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(4), got[1].ID)
}

func TestSearch(t *testing.T) {
	list := sampleAchievements()

	tests := []struct {
		name string
		term string
		want []int64
	}{
		{"by student name, case-insensitive", "ravi", []int64{1}},
		{"by email", "anita@", []int64{2}},
		{"by title", "hackathon", []int64{1, 4}},
		{"by department", "ece", []int64{2}},
		{"empty term returns everything", "", []int64{1, 2, 3, 4}},
		{"no match", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Search(list, tt.term)
			ids := make([]int64, 0, len(got))
			for _, a := range got {
				ids = append(ids, a.ID)
			}
			if tt.want == nil {
				assert.Empty(t, ids)
			} else {
				assert.Equal(t, tt.want, ids)
			}
		})
	}
}

func TestSort(t *testing.T) {
	list := sampleAchievements()

	t.Run("newest first by default", func(t *testing.T) {
		got := Sort(list, SortNewest)
		require.Len(t, got, 4)
		assert.Equal(t, int64(3), got[0].ID)
		assert.Equal(t, int64(4), got[3].ID)
	})

	t.Run("oldest first", func(t *testing.T) {
		got := Sort(list, SortOldest)
		assert.Equal(t, int64(4), got[0].ID)
		assert.Equal(t, int64(3), got[3].ID)
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		_ = Sort(list, SortOldest)
		assert.Equal(t, int64(1), list[0].ID)
	})
}

func TestGroupByDepartment(t *testing.T) {
	groups := GroupByDepartment(sampleAchievements())

	require.Len(t, groups, 3)
	assert.Len(t, groups["CSE"], 2)
	assert.Len(t, groups["ECE"], 1)
	assert.Len(t, groups[models.UnassignedDepartment], 1)
	assert.Equal(t, int64(3), groups[models.UnassignedDepartment][0].ID)
}
