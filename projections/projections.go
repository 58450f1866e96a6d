package projections

import (
	"sort"
	"strconv"
	"time"

	"github.com/wheelworks/wheelshop-api/models"
	"github.com/wheelworks/wheelshop-api/pipeline"
)

// Projections are pure views over the in-memory order set. The shop's order
// count stays in the tens to low thousands, so every call recomputes from
// scratch; nothing is cached.

// ByDepartment returns the orders currently in dept, sorted by order number.
// Departments before "finishing" hide cut orders: a cut cap or wheel is
// considered staged and should not clutter early-stage boards. From
// "finishing" on, cut orders are shown.
func ByDepartment(orders []models.Order, dept string) []models.Order {
	dept = pipeline.Normalize(dept)
	deptIdx, err := pipeline.IndexOf(dept)
	if err != nil {
		return nil
	}
	finishingIdx, _ := pipeline.IndexOf(pipeline.DeptFinishing)
	hideCut := deptIdx < finishingIdx

	var out []models.Order
	for _, o := range orders {
		if pipeline.Normalize(o.CurrentDepartment) != dept {
			continue
		}
		if hideCut && o.CutStatus == pipeline.CutStatusCut {
			continue
		}
		out = append(out, o)
	}
	SortByOrderNumber(out)
	return out
}

// SortByOrderNumber sorts orders by order number: numerically when both
// numbers parse as integers, lexicographically otherwise. Numeric order
// numbers always sort before non-numeric ones.
func SortByOrderNumber(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return lessOrderNumber(orders[i].OrderNumber, orders[j].OrderNumber)
	})
}

func lessOrderNumber(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

// RushQueue returns every order flagged rush, regardless of department.
// Completion normally clears the flag; an order that kept it still shows up.
func RushQueue(orders []models.Order) []models.Order {
	var out []models.Order
	for _, o := range orders {
		if o.IsRush {
			out = append(out, o)
		}
	}
	SortByOrderNumber(out)
	return out
}

// HoldEntry is a held order annotated with how long it has been waiting.
type HoldEntry struct {
	Order      models.Order `json:"order"`
	DaysOnHold int          `json:"days_on_hold"`
}

// HoldQueue returns every held order with its age in whole days.
func HoldQueue(orders []models.Order, now time.Time) []HoldEntry {
	var out []HoldEntry
	for _, o := range orders {
		if !o.IsOnHold {
			continue
		}
		days := 0
		if o.HoldSetAt != nil {
			days = int(now.Sub(*o.HoldSetAt).Hours() / 24)
			if days < 0 {
				days = 0
			}
		}
		out = append(out, HoldEntry{Order: o, DaysOnHold: days})
	}
	return out
}

// CutOrders returns every cut order regardless of department.
func CutOrders(orders []models.Order) []models.Order {
	var out []models.Order
	for _, o := range orders {
		if o.CutStatus == pipeline.CutStatusCut {
			out = append(out, o)
		}
	}
	SortByOrderNumber(out)
	return out
}

// ProductFilter filters by product type. The pseudo-type "caps" matches the
// whole cap family.
func ProductFilter(orders []models.Order, productType string) []models.Order {
	var out []models.Order
	for _, o := range orders {
		if matchesProduct(o.ProductType, productType) {
			out = append(out, o)
		}
	}
	return out
}

func matchesProduct(orderType, filter string) bool {
	if filter == pipeline.ProductCapsFilter {
		return pipeline.CapFamily[orderType]
	}
	return orderType == filter
}
