package services

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anirudhb/achievehub/internal/app/auth"
	"github.com/anirudhb/achievehub/internal/app/models"
	"github.com/anirudhb/achievehub/internal/pkg/apperrors"
)

type achievementFixture struct {
	svc           *AchievementService
	achievements  *fakeAchievementStore
	notifications *fakeNotificationStore
	users         *fakeUserStore
	tx            *fakeTxRunner
	storage       *fakeStorage
	stream        *fakeStream
}

func newAchievementFixture(users ...*models.User) *achievementFixture {
	f := &achievementFixture{
		achievements:  newFakeAchievementStore(),
		notifications: &fakeNotificationStore{},
		users:         newFakeUserStore(users...),
		tx:            &fakeTxRunner{},
		storage:       &fakeStorage{},
		stream:        &fakeStream{},
	}
	f.svc = NewAchievementService(
		f.achievements,
		f.notifications,
		f.users,
		f.tx,
		auth.NewAuthorizationService(),
		f.storage,
		f.stream,
		zerolog.Nop(),
	)
	return f
}

var (
	testStudent = &models.User{ID: 1, Email: "ravi@college.edu", Name: "Ravi Kumar", RoleType: models.RoleStudent, Department: "CSE"}
	testFaculty = &models.User{ID: 2, Email: "prof@college.edu", Name: "Prof Menon", RoleType: models.RoleFaculty, Department: "CSE"}
)

func submitInput() SubmitInput {
	return SubmitInput{
		Title:            "National Hackathon Winner",
		Description:      "First place",
		Category:         "Hackathon",
		OrganizationName: "IEEE",
		EventDate:        "2024-03-15",
	}
}

func TestSubmit(t *testing.T) {
	t.Run("creates a pending record with a department snapshot", func(t *testing.T) {
		f := newAchievementFixture(testStudent)

		a, err := f.svc.Submit(context.Background(), testStudent, submitInput())
		require.NoError(t, err)

		assert.Equal(t, models.StatusPending, a.Status)
		assert.Equal(t, "CSE", a.StudentDepartment)
		assert.Equal(t, testStudent.ID, a.StudentID)
		assert.Equal(t, testStudent.Name, a.StudentName)
		assert.Empty(t, a.Remarks)
		assert.Zero(t, a.VerifiedBy)

		// Submission receipt went to the student
		require.Len(t, f.notifications.created, 1)
		assert.Equal(t, testStudent.ID, f.notifications.created[0].UserID)
		assert.Equal(t, models.NotificationSubmission, f.notifications.created[0].Type)
		assert.Len(t, f.stream.published, 1)
	})

	t.Run("rejects a bad event date", func(t *testing.T) {
		f := newAchievementFixture(testStudent)

		in := submitInput()
		in.EventDate = "15-03-2024"
		_, err := f.svc.Submit(context.Background(), testStudent, in)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("an opted-out submission is not public", func(t *testing.T) {
		f := newAchievementFixture(testStudent)

		private := false
		in := submitInput()
		in.Public = &private
		a, err := f.svc.Submit(context.Background(), testStudent, in)
		require.NoError(t, err)
		assert.False(t, a.IsPublic)

		// Omitting the flag defaults to public
		a, err = f.svc.Submit(context.Background(), testStudent, submitInput())
		require.NoError(t, err)
		assert.True(t, a.IsPublic)
	})

	t.Run("non-students may not submit", func(t *testing.T) {
		f := newAchievementFixture(testFaculty)

		_, err := f.svc.Submit(context.Background(), testFaculty, submitInput())
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
		assert.Empty(t, f.achievements.achievements)
	})

	t.Run("a failed receipt does not fail the submission", func(t *testing.T) {
		f := newAchievementFixture(testStudent)
		f.notifications.createErr = assert.AnError

		a, err := f.svc.Submit(context.Background(), testStudent, submitInput())
		require.NoError(t, err)
		assert.NotZero(t, a.ID)
		assert.Empty(t, f.stream.published)
	})
}

func TestReview(t *testing.T) {
	submit := func(f *achievementFixture) *models.Achievement {
		a, err := f.svc.Submit(context.Background(), testStudent, submitInput())
		require.NoError(t, err)
		f.notifications.created = nil
		f.stream.published = nil
		return a
	}

	t.Run("approval stamps the reviewer and notifies the student", func(t *testing.T) {
		f := newAchievementFixture(testStudent, testFaculty)
		a := submit(f)

		got, err := f.svc.Review(context.Background(), testFaculty, a.ID, models.StatusApproved, "Verified")
		require.NoError(t, err)

		assert.Equal(t, models.StatusApproved, got.Status)
		assert.Equal(t, "Verified", got.Remarks)
		assert.Equal(t, testFaculty.ID, got.VerifiedBy)
		assert.Equal(t, testFaculty.Name, got.VerifiedByName)
		require.NotNil(t, got.VerificationDate)

		stored, _ := f.achievements.GetByID(context.Background(), a.ID)
		assert.Equal(t, models.StatusApproved, stored.Status)

		// Decision and notification share one transaction
		assert.Equal(t, 1, f.tx.calls)
		require.Len(t, f.notifications.created, 1)
		assert.Equal(t, models.NotificationApproval, f.notifications.created[0].Type)
		assert.Equal(t, testStudent.ID, f.notifications.created[0].UserID)
		assert.Contains(t, f.notifications.created[0].Message, "approved")
		assert.Len(t, f.stream.published, 1)
	})

	t.Run("rejection without remarks gets the default", func(t *testing.T) {
		f := newAchievementFixture(testStudent, testFaculty)
		a := submit(f)

		got, err := f.svc.Review(context.Background(), testFaculty, a.ID, models.StatusRejected, "")
		require.NoError(t, err)

		assert.Equal(t, "Rejected by faculty", got.Remarks)
		require.Len(t, f.notifications.created, 1)
		assert.Equal(t, models.NotificationRejection, f.notifications.created[0].Type)
	})

	t.Run("cross-department review leaves the record untouched", func(t *testing.T) {
		f := newAchievementFixture(testStudent, testFaculty)
		a := submit(f)

		eceFaculty := &models.User{ID: 3, Name: "Prof Iyer", RoleType: models.RoleFaculty, Department: "ECE"}
		_, err := f.svc.Review(context.Background(), eceFaculty, a.ID, models.StatusApproved, "")
		assert.ErrorIs(t, err, apperrors.ErrDepartmentMismatch)

		stored, _ := f.achievements.GetByID(context.Background(), a.ID)
		assert.Equal(t, models.StatusPending, stored.Status)
		assert.Zero(t, stored.VerifiedBy)
		assert.Empty(t, f.notifications.created)
		assert.Empty(t, f.stream.published)
	})

	t.Run("a second review overwrites the first", func(t *testing.T) {
		f := newAchievementFixture(testStudent, testFaculty)
		a := submit(f)

		_, err := f.svc.Review(context.Background(), testFaculty, a.ID, models.StatusRejected, "Certificate missing")
		require.NoError(t, err)

		got, err := f.svc.Review(context.Background(), testFaculty, a.ID, models.StatusApproved, "Certificate supplied")
		require.NoError(t, err)

		assert.Equal(t, models.StatusApproved, got.Status)
		assert.Equal(t, "Certificate supplied", got.Remarks)
		assert.Len(t, f.notifications.created, 2)
	})

	t.Run("only approve or reject are decisions", func(t *testing.T) {
		f := newAchievementFixture(testStudent, testFaculty)
		a := submit(f)

		_, err := f.svc.Review(context.Background(), testFaculty, a.ID, models.StatusPending, "")
		assert.ErrorIs(t, err, apperrors.ErrUnknownStatus)
	})

	t.Run("unknown achievement", func(t *testing.T) {
		f := newAchievementFixture(testStudent, testFaculty)

		_, err := f.svc.Review(context.Background(), testFaculty, 99, models.StatusApproved, "")
		assert.ErrorIs(t, err, apperrors.ErrAchievementNotFound)
	})
}

func TestDirectAdd(t *testing.T) {
	input := func() DirectAddInput {
		return DirectAddInput{StudentID: testStudent.ID, SubmitInput: submitInput()}
	}

	t.Run("creates an approved record under the faculty member's name", func(t *testing.T) {
		f := newAchievementFixture(testStudent, testFaculty)

		a, err := f.svc.DirectAdd(context.Background(), testFaculty, input())
		require.NoError(t, err)

		assert.Equal(t, models.StatusApproved, a.Status)
		assert.Equal(t, "Achievement uploaded and approved by faculty", a.Remarks)
		assert.Equal(t, testFaculty.ID, a.VerifiedBy)
		assert.Equal(t, testStudent.ID, a.StudentID)
		assert.Equal(t, testStudent.Name, a.StudentName)
		assert.Equal(t, "CSE", a.StudentDepartment)
		require.NotNil(t, a.VerificationDate)

		assert.Equal(t, 1, f.tx.calls)
		require.Len(t, f.notifications.created, 1)
		assert.Equal(t, testStudent.ID, f.notifications.created[0].UserID)
		assert.Equal(t, a.ID, f.notifications.created[0].RelatedAchievementID)
	})

	t.Run("refuses a student from another department", func(t *testing.T) {
		eceStudent := &models.User{ID: 7, Name: "Anita", RoleType: models.RoleStudent, Department: "ECE"}
		f := newAchievementFixture(eceStudent, testFaculty)

		in := input()
		in.StudentID = eceStudent.ID
		_, err := f.svc.DirectAdd(context.Background(), testFaculty, in)
		assert.ErrorIs(t, err, apperrors.ErrDepartmentMismatch)
		assert.Empty(t, f.achievements.achievements)
	})

	t.Run("refuses an unknown student", func(t *testing.T) {
		f := newAchievementFixture(testFaculty)

		_, err := f.svc.DirectAdd(context.Background(), testFaculty, input())
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("refuses a target that is not a student", func(t *testing.T) {
		otherFaculty := &models.User{ID: 8, Name: "Prof Das", RoleType: models.RoleFaculty, Department: "CSE"}
		f := newAchievementFixture(otherFaculty, testFaculty)

		in := input()
		in.StudentID = otherFaculty.ID
		_, err := f.svc.DirectAdd(context.Background(), testFaculty, in)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("students may not direct add", func(t *testing.T) {
		f := newAchievementFixture(testStudent)

		_, err := f.svc.DirectAdd(context.Background(), testStudent, input())
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})
}

func TestAttachCertificate(t *testing.T) {
	header := &multipart.FileHeader{Filename: "certificate.pdf", Size: 2048}

	t.Run("stores the file and patches the record", func(t *testing.T) {
		f := newAchievementFixture(testStudent)
		a, err := f.svc.Submit(context.Background(), testStudent, submitInput())
		require.NoError(t, err)

		got, err := f.svc.AttachCertificate(context.Background(), testStudent, a.ID, header)
		require.NoError(t, err)

		assert.Equal(t, "certificate.pdf", got.CertificateFileName)
		assert.Equal(t, int64(2048), got.CertificateSize)
		assert.NotEmpty(t, got.CertificateURL)

		stored, _ := f.achievements.GetByID(context.Background(), a.ID)
		assert.Equal(t, got.CertificateURL, stored.CertificateURL)
	})

	t.Run("removes the blob when the patch fails", func(t *testing.T) {
		f := newAchievementFixture(testStudent)
		a, err := f.svc.Submit(context.Background(), testStudent, submitInput())
		require.NoError(t, err)

		f.achievements.updateErr = assert.AnError
		_, err = f.svc.AttachCertificate(context.Background(), testStudent, a.ID, header)
		require.Error(t, err)

		require.Len(t, f.storage.saved, 1)
		require.Len(t, f.storage.deleted, 1)
		assert.Equal(t, f.storage.saved[0], f.storage.deleted[0])
	})

	t.Run("only the owner may attach", func(t *testing.T) {
		f := newAchievementFixture(testStudent, testFaculty)
		a, err := f.svc.Submit(context.Background(), testStudent, submitInput())
		require.NoError(t, err)

		_, err = f.svc.AttachCertificate(context.Background(), testFaculty, a.ID, header)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("missing file", func(t *testing.T) {
		f := newAchievementFixture(testStudent)
		_, err := f.svc.AttachCertificate(context.Background(), testStudent, 1, nil)
		assert.ErrorIs(t, err, apperrors.ErrNoCertificate)
	})
}

func TestList(t *testing.T) {
	seed := func(f *achievementFixture) {
		_, err := f.svc.Submit(context.Background(), testStudent, submitInput())
		require.NoError(t, err)

		eceStudent := &models.User{ID: 7, Email: "anita@college.edu", Name: "Anita", RoleType: models.RoleStudent, Department: "ECE"}
		f.users.users[eceStudent.ID] = eceStudent
		in := submitInput()
		in.Title = "IEEE Paper"
		_, err = f.svc.Submit(context.Background(), eceStudent, in)
		require.NoError(t, err)
	}

	t.Run("faculty are pinned to their department", func(t *testing.T) {
		f := newAchievementFixture(testStudent, testFaculty)
		seed(f)

		list, err := f.svc.List(context.Background(), testFaculty, ListOptions{})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "CSE", list[0].StudentDepartment)
	})

	t.Run("admins see every department", func(t *testing.T) {
		f := newAchievementFixture(testStudent, testFaculty)
		seed(f)

		admin := &models.User{ID: 9, RoleType: models.RoleAdmin}
		list, err := f.svc.List(context.Background(), admin, ListOptions{})
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("students see exactly their own records", func(t *testing.T) {
		f := newAchievementFixture(testStudent, testFaculty)
		seed(f)

		list, err := f.svc.ListOwn(context.Background(), testStudent, ListOptions{})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, testStudent.ID, list[0].StudentID)

		// Shape filters apply on the student's own slice too
		list, err = f.svc.ListOwn(context.Background(), testStudent, ListOptions{Status: "approved"})
		require.NoError(t, err)
		assert.Empty(t, list)

		list, err = f.svc.ListOwn(context.Background(), testStudent, ListOptions{Search: "hackathon"})
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("students may not list across users", func(t *testing.T) {
		f := newAchievementFixture(testStudent)

		_, err := f.svc.List(context.Background(), testStudent, ListOptions{})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("pending queue covers the reviewer's department only", func(t *testing.T) {
		f := newAchievementFixture(testStudent, testFaculty)
		seed(f)

		pending, err := f.svc.ListPending(context.Background(), testFaculty)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, models.StatusPending, pending[0].Status)
		assert.Equal(t, "CSE", pending[0].StudentDepartment)
	})
}

func TestGroupedByDepartment(t *testing.T) {
	f := newAchievementFixture(testStudent, testFaculty)

	// One public and one opted-out submission, both approved
	public, err := f.svc.Submit(context.Background(), testStudent, submitInput())
	require.NoError(t, err)

	private := false
	in := submitInput()
	in.Title = "Private Award"
	in.Public = &private
	optedOut, err := f.svc.Submit(context.Background(), testStudent, in)
	require.NoError(t, err)

	_, err = f.svc.Review(context.Background(), testFaculty, public.ID, models.StatusApproved, "")
	require.NoError(t, err)
	_, err = f.svc.Review(context.Background(), testFaculty, optedOut.ID, models.StatusApproved, "")
	require.NoError(t, err)

	groups, err := f.svc.GroupedByDepartment(context.Background())
	require.NoError(t, err)
	require.Len(t, groups["CSE"], 1)
	assert.Equal(t, public.ID, groups["CSE"][0].ID)
}

func TestDelete(t *testing.T) {
	t.Run("admin delete removes the certificate blob", func(t *testing.T) {
		f := newAchievementFixture(testStudent)
		a, err := f.svc.Submit(context.Background(), testStudent, submitInput())
		require.NoError(t, err)
		_, err = f.svc.AttachCertificate(context.Background(), testStudent, a.ID, &multipart.FileHeader{Filename: "c.pdf", Size: 1})
		require.NoError(t, err)

		admin := &models.User{ID: 9, RoleType: models.RoleAdmin}
		require.NoError(t, f.svc.Delete(context.Background(), admin, a.ID))

		assert.Empty(t, f.achievements.achievements)
		assert.NotEmpty(t, f.storage.deleted)
	})

	t.Run("owner may delete while pending", func(t *testing.T) {
		f := newAchievementFixture(testStudent, testFaculty)
		a, err := f.svc.Submit(context.Background(), testStudent, submitInput())
		require.NoError(t, err)

		assert.NoError(t, f.svc.Delete(context.Background(), testStudent, a.ID))
	})

	t.Run("owner may not delete after review", func(t *testing.T) {
		f := newAchievementFixture(testStudent, testFaculty)
		a, err := f.svc.Submit(context.Background(), testStudent, submitInput())
		require.NoError(t, err)
		_, err = f.svc.Review(context.Background(), testFaculty, a.ID, models.StatusApproved, "")
		require.NoError(t, err)

		err = f.svc.Delete(context.Background(), testStudent, a.ID)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})
}
