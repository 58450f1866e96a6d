package pipeline

import "fmt"

// Departments is the fixed production sequence every order moves through,
// in order. "shipped" is the terminal stage.
var Departments = []string{
	DeptReceived,
	DeptDesign,
	DeptProgram,
	DeptMachineWaiting,
	DeptMachine,
	DeptFinishing,
	DeptPowderCoat,
	DeptAssemble,
	DeptShowroom,
	DeptShipped,
}

const (
	DeptReceived       = "received"
	DeptDesign         = "design"
	DeptProgram        = "program"
	DeptMachineWaiting = "machine_waiting"
	DeptMachine        = "machine"
	DeptFinishing      = "finishing"
	DeptPowderCoat     = "powder_coat"
	DeptAssemble       = "assemble"
	DeptShowroom       = "showroom"
	DeptShipped        = "shipped"
)

// legacyCompleted is accepted as an alias for the terminal stage. Older data
// and some clients say "completed" where the pipeline says "shipped";
// Normalize maps it to the canonical value at the boundary.
const legacyCompleted = "completed"

// UnknownDepartmentError is returned when a department name is not part of
// the fixed pipeline.
type UnknownDepartmentError struct {
	Department string
}

func (e *UnknownDepartmentError) Error() string {
	return fmt.Sprintf("unknown department: %q", e.Department)
}

var indexByDepartment = func() map[string]int {
	m := make(map[string]int, len(Departments))
	for i, d := range Departments {
		m[d] = i
	}
	return m
}()

// Normalize maps legacy department aliases to their canonical names.
// Unrecognized values pass through unchanged so callers still get a proper
// UnknownDepartmentError from IndexOf.
func Normalize(dept string) string {
	if dept == legacyCompleted {
		return DeptShipped
	}
	return dept
}

// IndexOf returns the position of dept in the pipeline.
func IndexOf(dept string) (int, error) {
	i, ok := indexByDepartment[Normalize(dept)]
	if !ok {
		return 0, &UnknownDepartmentError{Department: dept}
	}
	return i, nil
}

// IsValid reports whether dept names a pipeline stage (aliases included).
func IsValid(dept string) bool {
	_, ok := indexByDepartment[Normalize(dept)]
	return ok
}

// IsTerminal reports whether dept is the final pipeline stage.
func IsTerminal(dept string) bool {
	return Normalize(dept) == DeptShipped
}

// Next returns the stage immediately following dept, or an error if dept is
// terminal or unknown.
func Next(dept string) (string, error) {
	i, err := IndexOf(dept)
	if err != nil {
		return "", err
	}
	if i == len(Departments)-1 {
		return "", fmt.Errorf("department %q has no next stage", dept)
	}
	return Departments[i+1], nil
}

// First returns the intake stage new orders start in.
func First() string {
	return Departments[0]
}
