package dto

// DashboardStatsResponse aggregates counts for the admin dashboard
type DashboardStatsResponse struct {
	TotalAchievements    int `json:"totalAchievements"`
	PendingAchievements  int `json:"pendingAchievements"`
	ApprovedAchievements int `json:"approvedAchievements"`
	RejectedAchievements int `json:"rejectedAchievements"`
	TotalStudents        int `json:"totalStudents"`
	TotalFaculty         int `json:"totalFaculty"`
}

// ConfigResponse exposes client-tunable settings such as polling intervals
type ConfigResponse struct {
	AchievementsPollInterval  string `json:"achievementsPollInterval" example:"10s"`
	NotificationsPollInterval string `json:"notificationsPollInterval" example:"5s"`
}
