package dto

import (
	"time"

	"github.com/anirudhb/achievehub/internal/app/models"
)

// SubmitAchievementRequest is a student's own submission. The submitting
// student's identity and department snapshot come from the authenticated
// principal, never from the payload.
type SubmitAchievementRequest struct {
	Title            string   `json:"title" binding:"required,max=255" example:"Won Hackathon"`
	Description      string   `json:"description" binding:"required" example:"First place at the national hackathon"`
	Category         string   `json:"category" binding:"required,max=100" example:"Hackathon"`
	OrganizationName string   `json:"organizationName" binding:"required,max=255" example:"IEEE"`
	EventDate        string   `json:"eventDate" binding:"required" example:"2024-03-15"`
	Tags             []string `json:"tags,omitempty"`
	// Omitting isPublic lists the record on the showcase once approved
	IsPublic *bool `json:"isPublic,omitempty" example:"true"`
}

// DirectAddRequest is a faculty member entering an achievement on a
// student's behalf. The target student must resolve to a real student in the
// faculty member's own department.
type DirectAddRequest struct {
	StudentID        int64    `json:"studentId" binding:"required" example:"42"`
	Title            string   `json:"title" binding:"required,max=255"`
	Description      string   `json:"description" binding:"required"`
	Category         string   `json:"category" binding:"required,max=100"`
	OrganizationName string   `json:"organizationName" binding:"required,max=255"`
	EventDate        string   `json:"eventDate" binding:"required" example:"2024-03-15"`
	Tags             []string `json:"tags,omitempty"`
}

// ReviewRequest decides a pending achievement
type ReviewRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected" example:"approved"`
	Remarks  string `json:"remarks,omitempty" example:"Verified against the certificate"`
}

// AchievementResponse is the public view of an achievement
type AchievementResponse struct {
	ID                  int64      `json:"id"`
	StudentID           int64      `json:"studentId"`
	StudentEmail        string     `json:"studentEmail"`
	StudentName         string     `json:"studentName"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Category            string     `json:"category"`
	OrganizationName    string     `json:"organizationName"`
	EventDate           time.Time  `json:"eventDate"`
	Tags                []string   `json:"tags"`
	CertificateURL      string     `json:"certificateUrl"`
	CertificateFileName string     `json:"certificateFileName"`
	CertificateSize     int64      `json:"certificateSize"`
	Status              string     `json:"status"`
	Remarks             string     `json:"remarks"`
	VerifiedBy          int64      `json:"verifiedBy,omitempty"`
	VerifiedByName      string     `json:"verifiedByName,omitempty"`
	VerificationDate    *time.Time `json:"verificationDate,omitempty"`
	Department          string     `json:"department"`
	StudentDepartment   string     `json:"studentDepartment"`
	IsPublic            bool       `json:"isPublic"`
	SubmittedAt         time.Time  `json:"submittedAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// FromAchievement converts a model into its response DTO
func FromAchievement(a *models.Achievement) AchievementResponse {
	return AchievementResponse{
		ID:                  a.ID,
		StudentID:           a.StudentID,
		StudentEmail:        a.StudentEmail,
		StudentName:         a.StudentName,
		Title:               a.Title,
		Description:         a.Description,
		Category:            a.Category,
		OrganizationName:    a.OrganizationName,
		EventDate:           a.EventDate,
		Tags:                a.Tags,
		CertificateURL:      a.CertificateURL,
		CertificateFileName: a.CertificateFileName,
		CertificateSize:     a.CertificateSize,
		Status:              string(a.Status),
		Remarks:             a.Remarks,
		VerifiedBy:          a.VerifiedBy,
		VerifiedByName:      a.VerifiedByName,
		VerificationDate:    a.VerificationDate,
		Department:          a.Department,
		StudentDepartment:   a.StudentDepartment,
		IsPublic:            a.IsPublic,
		SubmittedAt:         a.SubmittedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

// FromAchievements converts a model slice into response DTOs
func FromAchievements(list []models.Achievement) []AchievementResponse {
	out := make([]AchievementResponse, 0, len(list))
	for i := range list {
		out = append(out, FromAchievement(&list[i]))
	}
	return out
}

// AchievementListResponse wraps an achievement list
type AchievementListResponse struct {
	Achievements []AchievementResponse `json:"achievements"`
	Total        int                   `json:"total"`
}

// GroupedAchievementsResponse buckets achievements by department
type GroupedAchievementsResponse struct {
	Groups map[string][]AchievementResponse `json:"groups"`
}
