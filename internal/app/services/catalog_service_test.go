package services

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anirudhb/achievehub/internal/app/auth"
	"github.com/anirudhb/achievehub/internal/app/models"
	"github.com/anirudhb/achievehub/internal/app/models/dto"
	"github.com/anirudhb/achievehub/internal/pkg/apperrors"
)

type fakeCategoryStore struct {
	categories map[int64]*models.Category
	nextID     int64
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{categories: make(map[int64]*models.Category)}
}

func (f *fakeCategoryStore) GetAll(_ context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCategoryStore) GetByID(_ context.Context, id int64) (*models.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCategoryStore) Create(_ context.Context, c *models.Category) (int64, error) {
	f.nextID++
	c.ID = f.nextID
	copied := *c
	f.categories[c.ID] = &copied
	return c.ID, nil
}

func (f *fakeCategoryStore) Update(_ context.Context, id int64, name, description string) error {
	c, ok := f.categories[id]
	if !ok {
		return pgx.ErrNoRows
	}
	c.Name = name
	c.Description = description
	return nil
}

func (f *fakeCategoryStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.categories, id)
	return nil
}

var testAdmin = &models.User{ID: 10, Name: "Admin", RoleType: models.RoleAdmin}

func newCategoryService() (*CategoryService, *fakeCategoryStore) {
	store := newFakeCategoryStore()
	return NewCategoryService(store, auth.NewAuthorizationService(), zerolog.Nop()), store
}

func TestCategoryCreate(t *testing.T) {
	svc, _ := newCategoryService()

	t.Run("admin creates with normalized slug", func(t *testing.T) {
		c, err := svc.Create(context.Background(), testAdmin, &dto.CreateCategoryRequest{
			Name: " Hackathon ",
			Slug: " HACKATHON ",
		})
		require.NoError(t, err)
		assert.Equal(t, "Hackathon", c.Name)
		assert.Equal(t, "hackathon", c.Slug)
		assert.True(t, c.IsActive)
	})

	t.Run("non-admins are refused", func(t *testing.T) {
		_, err := svc.Create(context.Background(), testFaculty, &dto.CreateCategoryRequest{Name: "X", Slug: "x"})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})
}

func TestCategoryUpdate(t *testing.T) {
	svc, store := newCategoryService()
	created, err := svc.Create(context.Background(), testAdmin, &dto.CreateCategoryRequest{Name: "Sports", Slug: "sports"})
	require.NoError(t, err)

	t.Run("renames in place", func(t *testing.T) {
		updated, err := svc.Update(context.Background(), testAdmin, created.ID, &dto.UpdateCategoryRequest{
			Name:        "Athletics",
			Description: "Track and field",
		})
		require.NoError(t, err)
		assert.Equal(t, "Athletics", updated.Name)
		assert.Equal(t, "Track and field", store.categories[created.ID].Name)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := svc.Update(context.Background(), testAdmin, 404, &dto.UpdateCategoryRequest{Name: "X"})
		assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
	})
}

func TestCategoryDelete(t *testing.T) {
	svc, store := newCategoryService()
	created, err := svc.Create(context.Background(), testAdmin, &dto.CreateCategoryRequest{Name: "Sports", Slug: "sports"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), testAdmin, created.ID))
	assert.Empty(t, store.categories)

	assert.ErrorIs(t, svc.Delete(context.Background(), testAdmin, created.ID), apperrors.ErrCategoryNotFound)
}

type fakeNotificationReader struct {
	byUser map[int64][]models.Notification
}

func (f *fakeNotificationReader) GetByUser(_ context.Context, userID int64) ([]models.Notification, error) {
	return f.byUser[userID], nil
}

func (f *fakeNotificationReader) UnreadCount(_ context.Context, userID int64) (int64, error) {
	var n int64
	for _, notif := range f.byUser[userID] {
		if !notif.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotificationReader) MarkRead(_ context.Context, id, userID int64) error {
	for i, notif := range f.byUser[userID] {
		if notif.ID == id {
			f.byUser[userID][i].IsRead = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeNotificationReader) Delete(_ context.Context, id, userID int64) error {
	for i, notif := range f.byUser[userID] {
		if notif.ID == id {
			f.byUser[userID] = append(f.byUser[userID][:i], f.byUser[userID][i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func TestNotificationInbox(t *testing.T) {
	reader := &fakeNotificationReader{byUser: map[int64][]models.Notification{
		1: {
			{ID: 11, UserID: 1, Message: "first"},
			{ID: 12, UserID: 1, Message: "second", IsRead: true},
		},
		2: {
			{ID: 21, UserID: 2, Message: "other inbox"},
		},
	}}
	svc := NewNotificationService(reader, zerolog.Nop())

	t.Run("list and unread count are recipient scoped", func(t *testing.T) {
		list, err := svc.List(context.Background(), 1)
		require.NoError(t, err)
		assert.Len(t, list, 2)

		count, err := svc.UnreadCount(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("mark read", func(t *testing.T) {
		require.NoError(t, svc.MarkRead(context.Background(), 11, 1))
		count, _ := svc.UnreadCount(context.Background(), 1)
		assert.Zero(t, count)
	})

	t.Run("a foreign notification reads as not found", func(t *testing.T) {
		assert.ErrorIs(t, svc.MarkRead(context.Background(), 21, 1), apperrors.ErrNotificationNotFound)
		assert.ErrorIs(t, svc.Delete(context.Background(), 21, 1), apperrors.ErrNotificationNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(context.Background(), 12, 1))
		list, _ := svc.List(context.Background(), 1)
		assert.Len(t, list, 1)
	})
}

type fakeStatsStore struct {
	counts map[models.AchievementStatus]int64
}

func (f *fakeStatsStore) CountByStatus(_ context.Context) (map[models.AchievementStatus]int64, error) {
	return f.counts, nil
}

func TestDashboard(t *testing.T) {
	store := &fakeStatsStore{counts: map[models.AchievementStatus]int64{
		models.StatusPending:  3,
		models.StatusApproved: 5,
		models.StatusRejected: 2,
	}}
	users := newFakeUserStore(
		testStudent,
		testFaculty,
		&models.User{ID: 5, RoleType: models.RoleStudent, Department: "ECE"},
	)
	svc := NewStatsService(store, users, auth.NewAuthorizationService(), zerolog.Nop())

	t.Run("admin sees the aggregates", func(t *testing.T) {
		stats, err := svc.Dashboard(context.Background(), testAdmin)
		require.NoError(t, err)
		assert.Equal(t, 10, stats.TotalAchievements)
		assert.Equal(t, 3, stats.PendingAchievements)
		assert.Equal(t, 5, stats.ApprovedAchievements)
		assert.Equal(t, 2, stats.RejectedAchievements)
		assert.Equal(t, 2, stats.TotalStudents)
		assert.Equal(t, 1, stats.TotalFaculty)
	})

	t.Run("non-admins are refused", func(t *testing.T) {
		_, err := svc.Dashboard(context.Background(), testFaculty)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})
}

func TestListStudents(t *testing.T) {
	users := newFakeUserStore(
		testStudent,
		testFaculty,
		&models.User{ID: 5, RoleType: models.RoleStudent, Department: "ECE"},
	)
	svc := NewStatsService(&fakeStatsStore{}, users, auth.NewAuthorizationService(), zerolog.Nop())

	t.Run("faculty are pinned to their department", func(t *testing.T) {
		students, err := svc.ListStudents(context.Background(), testFaculty, "ECE")
		require.NoError(t, err)
		require.Len(t, students, 1)
		assert.Equal(t, "CSE", students[0].Department)
	})

	t.Run("admins may pick any department", func(t *testing.T) {
		students, err := svc.ListStudents(context.Background(), testAdmin, "ECE")
		require.NoError(t, err)
		require.Len(t, students, 1)
		assert.Equal(t, "ECE", students[0].Department)
	})

	t.Run("students are refused", func(t *testing.T) {
		_, err := svc.ListStudents(context.Background(), testStudent, "")
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})
}
