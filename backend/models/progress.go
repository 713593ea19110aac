package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
)

var ErrMalformedProgress = errors.New("malformed progress data")

// ProgressState maps a phase number to the set of completed step numbers in that phase.
//
// A ProgressState is a value: nothing mutates it after construction, and every transition
// returns a new one. Step numbers are scoped to their phase, so the same number completed in
// two phases is tracked twice. Entries need not match the catalog; persisted state may outlive
// catalog edits.
type ProgressState struct {
	phases map[int][]int // sorted, duplicate-free, never empty
}

// EmptyProgress is the state with nothing completed.
func EmptyProgress() ProgressState {
	return ProgressState{}
}

// NewProgressState builds a state from a phase -> steps mapping. Duplicates are collapsed and
// phases without steps are dropped.
func NewProgressState(m map[int][]int) ProgressState {
	phases := make(map[int][]int, len(m))
	for phase, steps := range m {
		if set := normalizeSteps(steps); len(set) > 0 {
			phases[phase] = set
		}
	}
	return ProgressState{phases: phases}
}

func normalizeSteps(steps []int) []int {
	if len(steps) == 0 {
		return nil
	}
	out := slices.Clone(steps)
	slices.Sort(out)
	return slices.Compact(out)
}

// CompletedSteps returns the completed step numbers of a phase in ascending order. Unknown
// phases yield an empty slice.
func (s ProgressState) CompletedSteps(phase int) []int {
	steps := s.phases[phase]
	if len(steps) == 0 {
		return []int{}
	}
	return slices.Clone(steps)
}

func (s ProgressState) IsCompleted(phase, step int) bool {
	_, found := slices.BinarySearch(s.phases[phase], step)
	return found
}

// Phases returns the phase numbers that have at least one completed step, ascending.
func (s ProgressState) Phases() []int {
	out := make([]int, 0, len(s.phases))
	for phase := range s.phases {
		out = append(out, phase)
	}
	slices.Sort(out)
	return out
}

// TotalCompleted counts completed steps across every phase, stale entries included.
func (s ProgressState) TotalCompleted() int {
	total := 0
	for _, steps := range s.phases {
		total += len(steps)
	}
	return total
}

// Map returns a copy of the state as a plain mapping.
func (s ProgressState) Map() map[int][]int {
	out := make(map[int][]int, len(s.phases))
	for phase, steps := range s.phases {
		out[phase] = slices.Clone(steps)
	}
	return out
}

func (s ProgressState) Equal(other ProgressState) bool {
	if len(s.phases) != len(other.phases) {
		return false
	}
	for phase, steps := range s.phases {
		if !slices.Equal(steps, other.phases[phase]) {
			return false
		}
	}
	return true
}

func (s ProgressState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}

func (s *ProgressState) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeProgress(data)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}

// ToggleStep flips the completion of step within phase and returns the resulting state.
// The input state is left untouched.
func ToggleStep(s ProgressState, phase, step int) ProgressState {
	next := make(map[int][]int, len(s.phases)+1)
	for p, steps := range s.phases {
		if p != phase {
			next[p] = steps // never mutated, safe to share
		}
	}

	current := s.phases[phase]
	var updated []int
	if i, found := slices.BinarySearch(current, step); found {
		updated = slices.Delete(slices.Clone(current), i, i+1)
	} else {
		updated = slices.Insert(slices.Clone(current), i, step)
	}
	if len(updated) > 0 {
		next[phase] = updated
	}
	return ProgressState{phases: next}
}

// OverallProgress is round(100 * completed / total) over the whole catalog. An empty catalog
// reports 0.
func OverallProgress(s ProgressState, c *Catalog) int {
	total := c.TotalSteps()
	if total == 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(s.TotalCompleted()) / float64(total)))
	return min(max(pct, 0), 100)
}

// PhaseProgress is the fractional percentage of one phase. A phase with no steps reports 0.
func PhaseProgress(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	pct := 100 * float64(completed) / float64(total)
	return math.Min(math.Max(pct, 0), 100)
}

// EncodeProgress serialises the state as a JSON object of phase number to step numbers,
// e.g. {"1":[1,3]}.
func EncodeProgress(s ProgressState) ([]byte, error) {
	return json.Marshal(s.Map())
}

// DecodeProgress parses the output of EncodeProgress. Any malformed input is reported as
// ErrMalformedProgress.
func DecodeProgress(data []byte) (ProgressState, error) {
	var raw map[int][]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return ProgressState{}, fmt.Errorf("%w: %v", ErrMalformedProgress, err)
	}
	return NewProgressState(raw), nil
}
