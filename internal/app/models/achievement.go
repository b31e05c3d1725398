package models

import "time"

// Achievement represents one student accomplishment record with a review
// lifecycle. The student's department is captured as a snapshot at submission
// time and never re-derived from the live profile, so later department
// reassignment does not change who may review old records.
type Achievement struct {
	ID                  int64             `json:"id" db:"id"`
	StudentID           int64             `json:"studentId" db:"student_id"`
	StudentEmail        string            `json:"studentEmail" db:"student_email"`
	StudentName         string            `json:"studentName" db:"student_name"`
	Title               string            `json:"title" db:"title"`
	Description         string            `json:"description" db:"description"`
	Category            string            `json:"category" db:"category"`
	OrganizationName    string            `json:"organizationName" db:"organization_name"`
	EventDate           time.Time         `json:"eventDate" db:"event_date"`
	Tags                []string          `json:"tags" db:"tags"`
	CertificateURL      string            `json:"certificateUrl" db:"certificate_url"`
	CertificateFileName string            `json:"certificateFileName" db:"certificate_file_name"`
	CertificateSize     int64             `json:"certificateSize" db:"certificate_size"`
	Status              AchievementStatus `json:"status" db:"status"`
	Remarks             string            `json:"remarks" db:"remarks"`
	VerifiedBy          int64             `json:"verifiedBy" db:"verified_by"`
	VerifiedByName      string            `json:"verifiedByName" db:"verified_by_name"`
	VerificationDate    *time.Time        `json:"verificationDate,omitempty" db:"verification_date"`
	Department          string            `json:"department" db:"department"`
	StudentDepartment   string            `json:"studentDepartment" db:"student_department"`
	IsPublic            bool              `json:"isPublic" db:"is_public"`
	SubmittedAt         time.Time         `json:"submittedAt" db:"submitted_at"`
	UpdatedAt           time.Time         `json:"updatedAt" db:"updated_at"`
}

// ReviewDepartment returns the department whose faculty may review this
// record: the snapshot when present, the plain department column otherwise.
func (a *Achievement) ReviewDepartment() string {
	if a.StudentDepartment != "" {
		return a.StudentDepartment
	}
	return a.Department
}

// Reviewed reports whether the record has left the pending state.
func (a *Achievement) Reviewed() bool {
	return a.Status != StatusPending
}
