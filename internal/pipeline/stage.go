package pipeline

// Stage is a state of one analysis run.
type Stage int

const (
	Idle Stage = iota
	Validating
	Building
	Fitting
	Classifying
	Done
	Failed
)

var stageNames = [...]string{"idle", "validating", "building", "fitting", "classifying", "done", "failed"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Terminal reports whether no further transition can happen.
func (s Stage) Terminal() bool {
	return s == Done || s == Failed
}

// Transition describes a stage change. Err is set only when To is Failed.
type Transition struct {
	RunID string
	From  Stage
	To    Stage
	Err   error
}

// Observer receives every transition of a run, in order.
type Observer func(Transition)
