package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/wheelworks/wheelshop-api/models"
	"github.com/wheelworks/wheelshop-api/pipeline"
)

func newTestOrder(productType string) *models.Order {
	o := &models.Order{
		ID:          1,
		OrderNumber: "1001",
		ProductType: productType,
		Quantity:    4,
		CutStatus:   pipeline.CutStatusNotCut,
		LaloStatus:  pipeline.LaloNotSent,
	}
	OpenIntake(o, "tester", time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC))
	return o
}

func TestOpenIntake(t *testing.T) {
	o := newTestOrder(pipeline.ProductRim)

	assert.Equal(t, pipeline.DeptReceived, o.CurrentDepartment)
	assert.Equal(t, 1, len(o.History), "Intake should open exactly one history entry")
	assert.Nil(t, o.History[0].CompletedAt, "The intake entry should be open")
	assert.Equal(t, pipeline.DeptReceived, o.History[0].Department)
	assert.Equal(t, "tester", o.History[0].MovedBy)
}

func TestAdvance(t *testing.T) {
	o := newTestOrder(pipeline.ProductRim)
	now := time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC)

	movement, err := Advance(o, "alice", now)
	assert.NoError(t, err)
	assert.Equal(t, pipeline.DeptDesign, o.CurrentDepartment)

	// The previous entry closed, a new one opened
	assert.Equal(t, 2, len(o.History))
	assert.NotNil(t, o.History[0].CompletedAt, "Previous stay should be closed")
	assert.Equal(t, now, *o.History[0].CompletedAt)
	assert.Nil(t, o.History[1].CompletedAt, "New stay should be open")
	assert.Equal(t, pipeline.DeptDesign, o.History[1].Department)

	// The movement records the transition for the audit log
	assert.Equal(t, pipeline.DeptReceived, movement.FromDepartment)
	assert.Equal(t, pipeline.DeptDesign, movement.ToDepartment)
	assert.Equal(t, "alice", movement.MovedBy)
	assert.Equal(t, now, movement.MovedAt)
}

func TestAdvance_BlockedByHold(t *testing.T) {
	o := newTestOrder(pipeline.ProductRim)
	now := time.Now()

	err := SetHold(o, "waiting on customer approval", "alice", now)
	assert.NoError(t, err)

	before := *o
	historyLen := len(o.History)

	_, err = Advance(o, "alice", now)
	assert.Error(t, err)
	engErr, ok := err.(*Error)
	assert.True(t, ok)
	assert.Equal(t, CodeOrderOnHold, engErr.Code)

	// A failed advance leaves the order untouched
	assert.Equal(t, before.CurrentDepartment, o.CurrentDepartment)
	assert.Equal(t, historyLen, len(o.History))
	assert.Nil(t, o.History[0].CompletedAt, "The open entry should still be open")
}

func TestAdvance_TerminalFails(t *testing.T) {
	o := newTestOrder(pipeline.ProductRim)
	now := time.Now()

	_, err := MoveTo(o, pipeline.DeptShipped, "alice", now)
	assert.NoError(t, err)

	_, err = Advance(o, "alice", now)
	assert.Error(t, err)
	engErr, ok := err.(*Error)
	assert.True(t, ok)
	assert.Equal(t, CodeNoNextDepartment, engErr.Code)
}

func TestAdvance_FullPipeline(t *testing.T) {
	o := newTestOrder(pipeline.ProductRim)
	now := time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC)

	// Nine advances walk received through shipped
	for i := 0; i < 9; i++ {
		now = now.Add(time.Hour)
		_, err := Advance(o, "alice", now)
		assert.NoError(t, err, "advance %d should succeed", i+1)
	}
	assert.Equal(t, pipeline.DeptShipped, o.CurrentDepartment)
	assert.True(t, o.IsTerminal())

	// The tenth fails
	_, err := Advance(o, "alice", now.Add(time.Hour))
	assert.Error(t, err)
	assert.Equal(t, CodeNoNextDepartment, err.(*Error).Code)

	// One entry per visited department, all closed once terminal
	assert.Equal(t, 10, len(o.History))
	for i, entry := range o.History {
		assert.NotNil(t, entry.CompletedAt, "entry %d should be closed", i)
		assert.Equal(t, pipeline.Departments[i], entry.Department)
	}
}

func TestAdvance_ClearsRushAtTerminal(t *testing.T) {
	o := newTestOrder(pipeline.ProductRim)
	now := time.Now()

	err := SetRush(o, true, "customer deadline", "alice", now)
	assert.NoError(t, err)
	assert.True(t, o.IsRush)

	_, err = MoveTo(o, pipeline.DeptShowroom, "alice", now)
	assert.NoError(t, err)
	assert.True(t, o.IsRush, "rush survives non-terminal moves")

	_, err = Advance(o, "alice", now)
	assert.NoError(t, err)
	assert.True(t, o.IsTerminal())
	assert.False(t, o.IsRush, "rush clears at the terminal stage")
	assert.Nil(t, o.RushReason)
	assert.Nil(t, o.RushSetBy)
}

func TestMoveTo(t *testing.T) {
	o := newTestOrder(pipeline.ProductRim)
	now := time.Now()

	// Skipping stages is allowed
	movement, err := MoveTo(o, pipeline.DeptMachine, "bob", now)
	assert.NoError(t, err)
	assert.Equal(t, pipeline.DeptMachine, o.CurrentDepartment)
	assert.Equal(t, pipeline.DeptReceived, movement.FromDepartment)
	assert.Equal(t, pipeline.DeptMachine, movement.ToDepartment)

	// Moving backward is allowed too
	_, err = MoveTo(o, pipeline.DeptDesign, "bob", now)
	assert.NoError(t, err)
	assert.Equal(t, pipeline.DeptDesign, o.CurrentDepartment)

	// Unknown departments are rejected before anything changes
	before := len(o.History)
	_, err = MoveTo(o, "painting", "bob", now)
	assert.Error(t, err)
	assert.Equal(t, CodeUnknownDepartment, err.(*Error).Code)
	assert.Equal(t, before, len(o.History))
}

func TestMoveTo_AllowedWhileHeld(t *testing.T) {
	o := newTestOrder(pipeline.ProductRim)
	now := time.Now()

	err := SetHold(o, "waiting on material", "alice", now)
	assert.NoError(t, err)

	_, err = MoveTo(o, pipeline.DeptProgram, "alice", now)
	assert.NoError(t, err, "MoveTo should bypass the hold")
	assert.Equal(t, pipeline.DeptProgram, o.CurrentDepartment)
	assert.True(t, o.IsOnHold, "the hold itself stays in place")
}

func TestMoveTo_NormalizesLegacyAlias(t *testing.T) {
	o := newTestOrder(pipeline.ProductRim)

	_, err := MoveTo(o, "completed", "alice", time.Now())
	assert.NoError(t, err)
	assert.Equal(t, pipeline.DeptShipped, o.CurrentDepartment, "the alias should be stored canonically")
}

func TestSetHold(t *testing.T) {
	o := newTestOrder(pipeline.ProductRim)
	now := time.Now()

	// A reason is mandatory
	err := SetHold(o, "", "alice", now)
	assert.Error(t, err)
	assert.Equal(t, CodeReasonRequired, err.(*Error).Code)
	assert.False(t, o.IsOnHold)

	err = SetHold(o, "waiting on deposit", "alice", now)
	assert.NoError(t, err)
	assert.True(t, o.IsOnHold)
	assert.Equal(t, "waiting on deposit", *o.HoldReason)
	assert.Equal(t, "alice", *o.HoldSetBy)
	assert.Equal(t, now, *o.HoldSetAt)

	// Holds never touch history
	assert.Equal(t, 1, len(o.History))
	assert.Equal(t, pipeline.DeptReceived, o.CurrentDepartment)
}

func TestReleaseHold(t *testing.T) {
	o := newTestOrder(pipeline.ProductRim)

	// Releasing an order that is not on hold is a no-op
	ReleaseHold(o)
	assert.False(t, o.IsOnHold)

	err := SetHold(o, "waiting", "alice", time.Now())
	assert.NoError(t, err)

	ReleaseHold(o)
	assert.False(t, o.IsOnHold)
	assert.Nil(t, o.HoldReason)
	assert.Nil(t, o.HoldSetBy)
	assert.Nil(t, o.HoldSetAt)
}

func TestHoldReleaseAdvance(t *testing.T) {
	o := newTestOrder(pipeline.ProductRim)
	now := time.Now()

	_, err := MoveTo(o, pipeline.DeptMachine, "alice", now)
	assert.NoError(t, err)

	err = SetHold(o, "tooling broke", "alice", now)
	assert.NoError(t, err)

	_, err = Advance(o, "alice", now)
	assert.Equal(t, CodeOrderOnHold, err.(*Error).Code)
	assert.Equal(t, pipeline.DeptMachine, o.CurrentDepartment)

	ReleaseHold(o)

	_, err = Advance(o, "alice", now)
	assert.NoError(t, err)
	assert.Equal(t, pipeline.DeptFinishing, o.CurrentDepartment)
}

func TestSetRush(t *testing.T) {
	o := newTestOrder(pipeline.ProductRim)
	now := time.Now()

	// Enabling rush requires a reason
	err := SetRush(o, true, "", "alice", now)
	assert.Error(t, err)
	assert.Equal(t, CodeReasonRequired, err.(*Error).Code)
	assert.False(t, o.IsRush)

	err = SetRush(o, true, "trade show", "alice", now)
	assert.NoError(t, err)
	assert.True(t, o.IsRush)
	assert.Equal(t, "trade show", *o.RushReason)

	// Disabling needs no reason and clears the metadata
	err = SetRush(o, false, "", "alice", now)
	assert.NoError(t, err)
	assert.False(t, o.IsRush)
	assert.Nil(t, o.RushReason)
	assert.Nil(t, o.RushSetBy)
	assert.Nil(t, o.RushSetAt)
}

func TestToggleCut(t *testing.T) {
	o := newTestOrder(pipeline.ProductStandardCaps)

	err := ToggleCut(o)
	assert.NoError(t, err)
	assert.Equal(t, pipeline.CutStatusCut, o.CutStatus)

	// Toggling twice returns to the original state
	err = ToggleCut(o)
	assert.NoError(t, err)
	assert.Equal(t, pipeline.CutStatusNotCut, o.CutStatus)
}

func TestToggleCut_RimRejected(t *testing.T) {
	o := newTestOrder(pipeline.ProductRim)

	err := ToggleCut(o)
	assert.Error(t, err)
	assert.Equal(t, CodeInvalidForProductType, err.(*Error).Code)
	assert.Equal(t, pipeline.CutStatusNotCut, o.CutStatus, "a rejected toggle changes nothing")
}

func TestToggleTires(t *testing.T) {
	o := newTestOrder(pipeline.ProductRim)

	err := ToggleTires(o)
	assert.NoError(t, err)
	assert.True(t, o.HasTires)

	err = ToggleTires(o)
	assert.NoError(t, err)
	assert.False(t, o.HasTires)

	// Cross-sell flags only apply to rims
	caps := newTestOrder(pipeline.ProductFloaterCaps)
	err = ToggleTires(caps)
	assert.Error(t, err)
	assert.Equal(t, CodeInvalidForProductType, err.(*Error).Code)
}

func TestToggleSteeringWheel(t *testing.T) {
	o := newTestOrder(pipeline.ProductRim)

	err := ToggleSteeringWheel(o)
	assert.NoError(t, err)
	assert.True(t, o.HasSteeringWheel)

	err = ToggleSteeringWheel(o)
	assert.NoError(t, err)
	assert.False(t, o.HasSteeringWheel, "toggling twice is the identity")

	wheel := newTestOrder(pipeline.ProductSteeringWheel)
	err = ToggleSteeringWheel(wheel)
	assert.Error(t, err, "the flag marks a rim order that also gets a wheel, not wheel orders themselves")
}

func TestSetLaloStatus(t *testing.T) {
	o := newTestOrder(pipeline.ProductRim)

	// The enumeration is unordered; any value can follow any other
	err := SetLaloStatus(o, pipeline.LaloAtLalo)
	assert.NoError(t, err)
	assert.Equal(t, pipeline.LaloAtLalo, o.LaloStatus)

	err = SetLaloStatus(o, pipeline.LaloNotSent)
	assert.NoError(t, err)
	assert.Equal(t, pipeline.LaloNotSent, o.LaloStatus)

	err = SetLaloStatus(o, "lost_in_transit")
	assert.Error(t, err)
	assert.Equal(t, CodeInvalidStatus, err.(*Error).Code)
	assert.Equal(t, pipeline.LaloNotSent, o.LaloStatus)
}

func TestSetFinalStatus(t *testing.T) {
	o := newTestOrder(pipeline.ProductRim)

	// Not settable before the terminal stage
	err := SetFinalStatus(o, pipeline.FinalStatusPickup)
	assert.Error(t, err)
	assert.Equal(t, CodeNotTerminal, err.(*Error).Code)
	assert.Nil(t, o.FinalStatus)

	_, err = MoveTo(o, pipeline.DeptShipped, "alice", time.Now())
	assert.NoError(t, err)

	err = SetFinalStatus(o, pipeline.FinalStatusPickup)
	assert.NoError(t, err)
	assert.Equal(t, pipeline.FinalStatusPickup, *o.FinalStatus)

	// Only the two known values are accepted
	err = SetFinalStatus(o, "delivered")
	assert.Error(t, err)
	assert.Equal(t, CodeInvalidStatus, err.(*Error).Code)
	assert.Equal(t, pipeline.FinalStatusPickup, *o.FinalStatus)
}
