// Package listing holds the pure, order-preserving transformations applied to
// achievement lists after they are fetched: status/category/department
// filters, free-text search, grouping, and submission-time sorting.
package listing

import (
	"sort"
	"strings"

	"github.com/anirudhb/achievehub/internal/app/models"
)

// StatusAll bypasses the status filter.
const StatusAll = "all"

// SortOrder selects the submission-time ordering of a list.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// FilterByStatus returns the subset with the given status, preserving
// relative order. The "all" status (or an empty one) returns the input
// unchanged.
func FilterByStatus(list []models.Achievement, status string) []models.Achievement {
	if status == "" || status == StatusAll {
		return list
	}

	out := make([]models.Achievement, 0, len(list))
	for _, a := range list {
		if string(a.Status) == status {
			out = append(out, a)
		}
	}
	return out
}

// FilterByDepartment returns the subset whose review department matches
// exactly. Records without any department fall into the Unassigned bucket.
func FilterByDepartment(list []models.Achievement, department string) []models.Achievement {
	if department == "" {
		return list
	}

	out := make([]models.Achievement, 0, len(list))
	for _, a := range list {
		if departmentBucket(&a) == department {
			out = append(out, a)
		}
	}
	return out
}

// FilterByCategory returns the subset with an exact category match.
func FilterByCategory(list []models.Achievement, category string) []models.Achievement {
	if category == "" {
		return list
	}

	out := make([]models.Achievement, 0, len(list))
	for _, a := range list {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

// Search scans for a case-insensitive substring across student name, email,
// department, and title. An empty term returns the input unchanged.
func Search(list []models.Achievement, term string) []models.Achievement {
	if term == "" {
		return list
	}
	needle := strings.ToLower(term)

	out := make([]models.Achievement, 0, len(list))
	for _, a := range list {
		if strings.Contains(strings.ToLower(a.StudentName), needle) ||
			strings.Contains(strings.ToLower(a.StudentEmail), needle) ||
			strings.Contains(strings.ToLower(a.ReviewDepartment()), needle) ||
			strings.Contains(strings.ToLower(a.Title), needle) {
			out = append(out, a)
		}
	}
	return out
}

// Sort orders a copy of the list by submission time, newest first by default.
// The sort is stable, so equal timestamps keep their fetch order.
func Sort(list []models.Achievement, order SortOrder) []models.Achievement {
	out := make([]models.Achievement, len(list))
	copy(out, list)

	sort.SliceStable(out, func(i, j int) bool {
		if order == SortOldest {
			return out[i].SubmittedAt.Before(out[j].SubmittedAt)
		}
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out
}

// GroupByDepartment buckets achievements by review department, defaulting
// unset values to the Unassigned bucket. Order within a bucket follows the
// input order.
func GroupByDepartment(list []models.Achievement) map[string][]models.Achievement {
	groups := make(map[string][]models.Achievement)
	for _, a := range list {
		bucket := departmentBucket(&a)
		groups[bucket] = append(groups[bucket], a)
	}
	return groups
}

func departmentBucket(a *models.Achievement) string {
	if dept := a.ReviewDepartment(); dept != "" {
		return dept
	}
	return models.UnassignedDepartment
}
