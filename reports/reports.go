package reports

import (
	"math"
	"sort"

	"github.com/wheelworks/wheelshop-api/models"
	"github.com/wheelworks/wheelshop-api/pipeline"
)

// StatsByDepartment counts orders per current department.
func StatsByDepartment(orders []models.Order) map[string]int {
	stats := make(map[string]int, len(pipeline.Departments))
	for _, d := range pipeline.Departments {
		stats[d] = 0
	}
	for _, o := range orders {
		stats[pipeline.Normalize(o.CurrentDepartment)]++
	}
	return stats
}

// StatsByProduct counts orders per product type. The entire cap family is
// pre-summed under "caps"; subtypes are not reported individually.
func StatsByProduct(orders []models.Order) map[string]int {
	stats := map[string]int{
		pipeline.ProductRim:           0,
		pipeline.ProductSteeringWheel: 0,
		pipeline.ProductCapsFilter:    0,
	}
	for _, o := range orders {
		switch {
		case pipeline.CapFamily[o.ProductType]:
			stats[pipeline.ProductCapsFilter]++
		default:
			stats[o.ProductType]++
		}
	}
	return stats
}

// UserPerformance is one user's line in the daily performance report.
type UserPerformance struct {
	UserID     uint   `json:"user_id"`
	User       string `json:"user"`
	Target     int    `json:"target"`
	Completed  int    `json:"completed"`
	Percentage int    `json:"percentage"`
	Grade      string `json:"grade"`
}

// DailyPerformance computes per-user performance for one day from the
// movement log. Every department move a user performed that day counts as one
// completion. Movements are keyed by MovedByID because display names are not
// unique; the name shown comes from the users list, falling back to the name
// recorded on the movement for actors no longer in the table. Users with a
// DailyTarget override use it; everyone else gets defaultTarget.
func DailyPerformance(movements []models.Movement, date string, users []models.User, defaultTarget int) []UserPerformance {
	usersByID := make(map[uint]models.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	completed := make(map[uint]int)
	recordedNames := make(map[uint]string)
	for _, m := range movements {
		if m.MovedAt.Format("2006-01-02") != date {
			continue
		}
		completed[m.MovedByID]++
		recordedNames[m.MovedByID] = m.MovedBy
	}

	// Users with a target but no movements still get a (failing) line.
	for _, u := range users {
		if u.DailyTarget == nil {
			continue
		}
		if _, ok := completed[u.ID]; !ok {
			completed[u.ID] = 0
		}
	}

	out := make([]UserPerformance, 0, len(completed))
	for id, count := range completed {
		target := defaultTarget
		name := recordedNames[id]
		if u, ok := usersByID[id]; ok {
			name = u.Name
			if u.DailyTarget != nil {
				target = *u.DailyTarget
			}
		}
		pct := 0
		if target > 0 {
			pct = int(math.Round(float64(count) / float64(target) * 100))
		}
		out = append(out, UserPerformance{
			UserID:     id,
			User:       name,
			Target:     target,
			Completed:  count,
			Percentage: pct,
			Grade:      Grade(pct),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].User != out[j].User {
			return out[i].User < out[j].User
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

// Grade maps a completion percentage to its letter grade. The thresholds are
// a user-visible contract: ≥100 A, ≥80 B, ≥60 C, ≥40 D, else F.
func Grade(percentage int) string {
	switch {
	case percentage >= 100:
		return "A"
	case percentage >= 80:
		return "B"
	case percentage >= 60:
		return "C"
	case percentage >= 40:
		return "D"
	default:
		return "F"
	}
}
