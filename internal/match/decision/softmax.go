package decision

import (
	"math"
	"slices"
	"strings"

	"github.com/yellowhama/matchsim/internal/roster"
)

const (
	minCandidateWeight = 0.0001
	minTemperature     = 1e-3
)

// Candidate is an action with an unnormalized importance weight.
type Candidate struct {
	Action Action
	Weight float64
}

// Candidates turns a weight map into the deterministic sampling order:
// sorted by action name, weights floored at a small positive value.
func Candidates(weights map[Action]float64) []Candidate {
	out := make([]Candidate, 0, len(weights))
	for a, w := range weights {
		out = append(out, Candidate{Action: a, Weight: max(w, minCandidateWeight)})
	}
	slices.SortFunc(out, func(x, y Candidate) int {
		return strings.Compare(x.Action.String(), y.Action.String())
	})
	return out
}

// TempoTemperature scales a base softmax temperature by team tempo. Faster
// tempo gives a higher temperature and riskier choices.
func TempoTemperature(base float64, tempo roster.Tempo) float64 {
	numeric := min(max((tempo.Factor()-0.6)/0.2, -2), 2)
	return min(max(base*(1+numeric*0.08), 0.15), 0.95)
}

// SelectSoftmax samples one candidate with probability proportional to
// weight^(1/temperature), using the single uniform draw u in [0,1).
// ok is false when there are no candidates.
func SelectSoftmax(candidates []Candidate, temperature, u float64) (Action, bool) {
	if len(candidates) == 0 {
		return ActionPass, false
	}
	t := max(temperature, minTemperature)

	best := math.Inf(-1)
	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		scores[i] = math.Log(max(c.Weight, minCandidateWeight))
		best = max(best, scores[i])
	}
	total := 0.0
	for i, s := range scores {
		scores[i] = math.Exp((s - best) / t)
		total += scores[i]
	}
	if total <= 0 || math.IsInf(total, 0) || math.IsNaN(total) {
		return candidates[0].Action, true
	}

	pick := u * total
	for i, w := range scores {
		pick -= w
		if pick <= 0 {
			return candidates[i].Action, true
		}
	}
	return candidates[len(candidates)-1].Action, true
}
