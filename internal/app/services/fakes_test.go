package services

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/anirudhb/achievehub/internal/app/models"
	"github.com/anirudhb/achievehub/internal/app/repositories"
	"github.com/anirudhb/achievehub/internal/db"
	"github.com/anirudhb/achievehub/internal/pkg/filestorage"
)

// In-memory fakes standing in for the pgx-backed repositories. The Tx-suffix
// methods ignore the Querier; the fake tx runner invokes the callback with a
// nil transaction.

type fakeAchievementStore struct {
	achievements map[int64]*models.Achievement
	nextID       int64
	createErr    error
	updateErr    error
}

func newFakeAchievementStore() *fakeAchievementStore {
	return &fakeAchievementStore{achievements: make(map[int64]*models.Achievement)}
}

func (f *fakeAchievementStore) Create(ctx context.Context, a *models.Achievement) (int64, error) {
	return f.CreateTx(ctx, nil, a)
}

func (f *fakeAchievementStore) CreateTx(_ context.Context, _ repositories.Querier, a *models.Achievement) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	a.ID = f.nextID
	now := time.Now()
	a.SubmittedAt = now
	a.UpdatedAt = now
	stored := *a
	f.achievements[a.ID] = &stored
	return a.ID, nil
}

func (f *fakeAchievementStore) GetByID(_ context.Context, id int64) (*models.Achievement, error) {
	a, ok := f.achievements[id]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAchievementStore) GetAll(_ context.Context, filter repositories.AchievementFilter) ([]models.Achievement, error) {
	var out []models.Achievement
	for _, a := range f.achievements {
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.StudentID != nil && a.StudentID != *filter.StudentID {
			continue
		}
		if filter.Department != nil && a.ReviewDepartment() != *filter.Department {
			continue
		}
		if filter.Category != nil && a.Category != *filter.Category {
			continue
		}
		if filter.IsPublic != nil && a.IsPublic != *filter.IsPublic {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeAchievementStore) UpdateCertificate(_ context.Context, id int64, fileURL, fileName string, fileSize int64) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	a, ok := f.achievements[id]
	if !ok {
		return pgx.ErrNoRows
	}
	a.CertificateURL = fileURL
	a.CertificateFileName = fileName
	a.CertificateSize = fileSize
	return nil
}

func (f *fakeAchievementStore) UpdateReviewTx(_ context.Context, _ repositories.Querier, id int64, status models.AchievementStatus, remarks string, verifiedBy int64, verifiedByName string, when time.Time) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	a, ok := f.achievements[id]
	if !ok {
		return pgx.ErrNoRows
	}
	a.Status = status
	a.Remarks = remarks
	a.VerifiedBy = verifiedBy
	a.VerifiedByName = verifiedByName
	a.VerificationDate = &when
	a.UpdatedAt = when
	return nil
}

func (f *fakeAchievementStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.achievements[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.achievements, id)
	return nil
}

type fakeNotificationStore struct {
	created   []models.Notification
	createErr error
}

func (f *fakeNotificationStore) Create(ctx context.Context, n *models.Notification) (int64, error) {
	return f.CreateTx(ctx, nil, n)
}

func (f *fakeNotificationStore) CreateTx(_ context.Context, _ repositories.Querier, n *models.Notification) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	n.ID = int64(len(f.created) + 1)
	n.CreatedAt = time.Now()
	f.created = append(f.created, *n)
	return n.ID, nil
}

type fakeUserStore struct {
	users map[int64]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{users: make(map[int64]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) (int64, error) {
	user.ID = int64(len(f.users) + 1)
	user.IsActive = true
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return user.ID, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	u, _ := f.GetByEmail(ctx, email)
	return u != nil, nil
}

func (f *fakeUserStore) CountByRole(_ context.Context, role models.RoleType) (int64, error) {
	var n int64
	for _, u := range f.users {
		if u.RoleType == role {
			n++
		}
	}
	return n, nil
}

func (f *fakeUserStore) GetByRole(_ context.Context, role models.RoleType, department string) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if u.RoleType != role {
			continue
		}
		if department != "" && u.Department != department {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

type fakeTokenStore struct {
	tokens map[string]*repositories.RefreshToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]*repositories.RefreshToken)}
}

func (f *fakeTokenStore) Create(_ context.Context, userID int64, token string, expiresAt time.Time) error {
	f.tokens[token] = &repositories.RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return nil
}

func (f *fakeTokenStore) Get(_ context.Context, token string) (*repositories.RefreshToken, error) {
	return f.tokens[token], nil
}

func (f *fakeTokenStore) Revoke(_ context.Context, token string) error {
	if t, ok := f.tokens[token]; ok {
		t.Revoked = true
	}
	return nil
}

func (f *fakeTokenStore) RevokeAllForUser(_ context.Context, userID int64) error {
	for _, t := range f.tokens {
		if t.UserID == userID {
			t.Revoked = true
		}
	}
	return nil
}

// fakeTxRunner invokes the callback with a nil transaction; the fake stores
// ignore the Querier anyway.
type fakeTxRunner struct {
	calls int
}

func (f *fakeTxRunner) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	f.calls++
	return fn(ctx, nil)
}

type fakeStorage struct {
	saved   []string
	deleted []string
	saveErr error
}

func (f *fakeStorage) SaveFile(fileHeader *multipart.FileHeader, subPath string) (*filestorage.StoredFile, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	url := "http://localhost:8080/uploads/" + subPath + "/" + fileHeader.Filename
	f.saved = append(f.saved, url)
	return &filestorage.StoredFile{
		URL:      url,
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
	}, nil
}

func (f *fakeStorage) DeleteFile(fileURL string) error {
	f.deleted = append(f.deleted, fileURL)
	return nil
}

func (f *fakeStorage) GetFullPath(fileURL string) string {
	return fileURL
}

type fakeStream struct {
	published []models.Notification
}

func (f *fakeStream) Publish(_ int64, n *models.Notification) {
	f.published = append(f.published, *n)
}
