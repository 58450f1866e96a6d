package engine

import (
	"fmt"
	"time"

	"github.com/wheelworks/wheelshop-api/models"
	"github.com/wheelworks/wheelshop-api/pipeline"
)

// Error codes for expected domain rule violations. Anything else (storage
// failures and the like) is outside the engine's vocabulary and must be
// propagated untouched by callers.
const (
	CodeOrderOnHold           = "ORDER_ON_HOLD"
	CodeNoNextDepartment      = "NO_NEXT_DEPARTMENT"
	CodeUnknownDepartment     = "UNKNOWN_DEPARTMENT"
	CodeInvalidForProductType = "INVALID_FOR_PRODUCT_TYPE"
	CodeReasonRequired        = "REASON_REQUIRED"
	CodeNotTerminal           = "NOT_TERMINAL"
	CodeInvalidStatus         = "INVALID_STATUS"
)

// Error is a tagged domain rule violation. Operations validate before they
// mutate, so an operation that returns an Error leaves the order unchanged.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Advance moves the order to the next pipeline stage. It fails if the order
// is on hold or already terminal. On success the open history entry is
// closed, a new one is opened for the next stage, and the returned Movement
// describes the transition for the audit log.
func Advance(o *models.Order, actor string, now time.Time) (*models.Movement, error) {
	if o.IsOnHold {
		return nil, newError(CodeOrderOnHold, "order %s is on hold; release the hold before advancing", o.OrderNumber)
	}
	next, err := pipeline.Next(o.CurrentDepartment)
	if err != nil {
		if !pipeline.IsValid(o.CurrentDepartment) {
			return nil, newError(CodeUnknownDepartment, "order %s is in unknown department %q", o.OrderNumber, o.CurrentDepartment)
		}
		return nil, newError(CodeNoNextDepartment, "order %s is already in the final department", o.OrderNumber)
	}
	return applyMove(o, next, actor, now), nil
}

// MoveTo jumps the order to an arbitrary pipeline stage. Unlike Advance it is
// allowed while the order is on hold; rush orders and admin overrides use it
// to skip stages. The target must still be a known department.
func MoveTo(o *models.Order, target, actor string, now time.Time) (*models.Movement, error) {
	if !pipeline.IsValid(target) {
		return nil, newError(CodeUnknownDepartment, "unknown department: %q", target)
	}
	return applyMove(o, pipeline.Normalize(target), actor, now), nil
}

// applyMove does the shared history bookkeeping for Advance and MoveTo.
// Rush is cleared when the order lands in the terminal stage.
func applyMove(o *models.Order, to, actor string, now time.Time) *models.Movement {
	from := o.CurrentDepartment
	if open := o.OpenHistoryEntry(); open != nil {
		completed := now
		open.CompletedAt = &completed
	}
	o.History = append(o.History, models.DepartmentHistoryEntry{
		OrderID:    o.ID,
		Department: to,
		StartedAt:  now,
		MovedBy:    actor,
	})
	o.CurrentDepartment = to
	if pipeline.IsTerminal(to) {
		if open := o.OpenHistoryEntry(); open != nil {
			completed := now
			open.CompletedAt = &completed
		}
		o.IsRush = false
		o.RushReason = nil
		o.RushSetBy = nil
		o.RushSetAt = nil
	}
	return &models.Movement{
		OrderID:        o.ID,
		FromDepartment: from,
		ToDepartment:   to,
		MovedBy:        actor,
		MovedAt:        now,
	}
}

// SetHold puts the order on hold. A non-empty reason is required. Holds do
// not change the current department or history.
func SetHold(o *models.Order, reason, actor string, now time.Time) error {
	if reason == "" {
		return newError(CodeReasonRequired, "a hold reason is required")
	}
	o.IsOnHold = true
	o.HoldReason = &reason
	o.HoldSetBy = &actor
	o.HoldSetAt = &now
	return nil
}

// ReleaseHold clears the hold. Releasing an order that is not on hold is a
// no-op, not an error.
func ReleaseHold(o *models.Order) {
	o.IsOnHold = false
	o.HoldReason = nil
	o.HoldSetBy = nil
	o.HoldSetAt = nil
}

// SetRush toggles the rush flag. Enabling rush requires a reason.
func SetRush(o *models.Order, rush bool, reason, actor string, now time.Time) error {
	if rush {
		if reason == "" {
			return newError(CodeReasonRequired, "a rush reason is required")
		}
		o.IsRush = true
		o.RushReason = &reason
		o.RushSetBy = &actor
		o.RushSetAt = &now
		return nil
	}
	o.IsRush = false
	o.RushReason = nil
	o.RushSetBy = nil
	o.RushSetAt = nil
	return nil
}

// ToggleCut flips the cut status. Only steering wheels and cap-family
// products have a cutting sub-operation.
func ToggleCut(o *models.Order) error {
	if !pipeline.SupportsCut(o.ProductType) {
		return newError(CodeInvalidForProductType, "cut status does not apply to product type %q", o.ProductType)
	}
	if o.CutStatus == pipeline.CutStatusCut {
		o.CutStatus = pipeline.CutStatusNotCut
	} else {
		o.CutStatus = pipeline.CutStatusCut
	}
	return nil
}

// ToggleTires flips the tires cross-sell flag; rim orders only.
func ToggleTires(o *models.Order) error {
	if o.ProductType != pipeline.ProductRim {
		return newError(CodeInvalidForProductType, "tires flag only applies to rim orders, not %q", o.ProductType)
	}
	o.HasTires = !o.HasTires
	return nil
}

// ToggleSteeringWheel flips the steering wheel cross-sell flag; rim orders
// only.
func ToggleSteeringWheel(o *models.Order) error {
	if o.ProductType != pipeline.ProductRim {
		return newError(CodeInvalidForProductType, "steering wheel flag only applies to rim orders, not %q", o.ProductType)
	}
	o.HasSteeringWheel = !o.HasSteeringWheel
	return nil
}

// SetLaloStatus sets the vendor-handoff sub-status. The enumeration is
// unordered, so any known value may follow any other.
func SetLaloStatus(o *models.Order, status string) error {
	if !pipeline.LaloStatuses[status] {
		return newError(CodeInvalidStatus, "unknown lalo status: %q", status)
	}
	o.LaloStatus = status
	return nil
}

// SetFinalStatus records how a finished order left the shop. It is only
// valid once the order has reached the terminal department.
func SetFinalStatus(o *models.Order, status string) error {
	if status != pipeline.FinalStatusPickup && status != pipeline.FinalStatusShipped {
		return newError(CodeInvalidStatus, "final status must be %q or %q", pipeline.FinalStatusPickup, pipeline.FinalStatusShipped)
	}
	if !o.IsTerminal() {
		return newError(CodeNotTerminal, "order %s has not finished the pipeline", o.OrderNumber)
	}
	o.FinalStatus = &status
	return nil
}

// OpenIntake initializes a freshly created order: first pipeline stage with
// one open history entry.
func OpenIntake(o *models.Order, actor string, now time.Time) {
	o.CurrentDepartment = pipeline.First()
	o.History = append(o.History, models.DepartmentHistoryEntry{
		OrderID:    o.ID,
		Department: pipeline.First(),
		StartedAt:  now,
		MovedBy:    actor,
	})
}
