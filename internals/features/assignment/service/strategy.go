package service

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// ConsultantLoad: konsultan aktif beserta beban kerjanya.
type ConsultantLoad struct {
	ID             uuid.UUID  `json:"user_id"`
	Name           string     `json:"user_name"`
	SupervisorID   *uuid.UUID `json:"user_supervisor_id,omitempty"`
	LastAssignedAt *time.Time `json:"user_last_assigned_at,omitempty"`
	ActiveCount    int64      `json:"active_count"`
	TotalCount     int64      `json:"total_count"`
}

// lessRecent: belum pernah menerima kandidat didahulukan, lalu yang paling lama.
func lessRecent(a, b ConsultantLoad) bool {
	switch {
	case a.LastAssignedAt == nil && b.LastAssignedAt != nil:
		return true
	case a.LastAssignedAt != nil && b.LastAssignedAt == nil:
		return false
	case a.LastAssignedAt != nil && b.LastAssignedAt != nil && !a.LastAssignedAt.Equal(*b.LastAssignedAt):
		return a.LastAssignedAt.Before(*b.LastAssignedAt)
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID.String() < b.ID.String()
}

// PickRoundRobin: konsultan yang paling lama tidak menerima kandidat.
func PickRoundRobin(list []ConsultantLoad) (ConsultantLoad, bool) {
	if len(list) == 0 {
		return ConsultantLoad{}, false
	}
	sorted := append([]ConsultantLoad(nil), list...)
	sort.SliceStable(sorted, func(i, j int) bool { return lessRecent(sorted[i], sorted[j]) })
	return sorted[0], true
}

// PickLeastWorkload: kandidat aktif paling sedikit; seri → round robin.
func PickLeastWorkload(list []ConsultantLoad) (ConsultantLoad, bool) {
	if len(list) == 0 {
		return ConsultantLoad{}, false
	}
	sorted := append([]ConsultantLoad(nil), list...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ActiveCount != sorted[j].ActiveCount {
			return sorted[i].ActiveCount < sorted[j].ActiveCount
		}
		return lessRecent(sorted[i], sorted[j])
	})
	return sorted[0], true
}

// PickRandom: intn harus mengembalikan [0, n).
func PickRandom(list []ConsultantLoad, intn func(n int) int) (ConsultantLoad, bool) {
	if len(list) == 0 {
		return ConsultantLoad{}, false
	}
	return list[intn(len(list))], true
}
