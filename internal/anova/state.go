package anova

// State is a position in the single-pass pipeline. Each state is reached
// once the step of the same name succeeds.
type State int

const (
	StateLoaded State = iota
	StateSummarized
	StateHomogeneityChecked
	StateIneligible
	StateRatiosComputed
	StateSSComputed
	StateDFComputed
	StateMSComputed
	StateFComputed
	StateCriticalValueComputed
	StateDecided
)

var stateNames = map[State]string{
	StateLoaded:                "loaded",
	StateSummarized:            "summarized",
	StateHomogeneityChecked:    "homogeneity_checked",
	StateIneligible:            "ineligible",
	StateRatiosComputed:        "ratios_computed",
	StateSSComputed:            "ss_computed",
	StateDFComputed:            "df_computed",
	StateMSComputed:            "ms_computed",
	StateFComputed:             "f_computed",
	StateCriticalValueComputed: "critical_value_computed",
	StateDecided:               "decided",
}

var stepNames = map[State]string{
	StateLoaded:                "load",
	StateSummarized:            "column summary",
	StateHomogeneityChecked:    "homogeneity",
	StateIneligible:            "homogeneity",
	StateRatiosComputed:        "basic ratios",
	StateSSComputed:            "sums of squares",
	StateDFComputed:            "degrees of freedom",
	StateMSComputed:            "mean squares",
	StateFComputed:             "f statistic",
	StateCriticalValueComputed: "critical value",
	StateDecided:               "significance decision",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// Step names the computation that produces s.
func (s State) Step() string {
	if n, ok := stepNames[s]; ok {
		return n
	}
	return "unknown"
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool { return s == StateIneligible || s == StateDecided }

// MarshalText lets traces serialize by name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
