package decision

// Counter names one decision statistic.
type Counter int

const (
	CounterShotGateChecks Counter = iota
	CounterShotGateAllowed
	CounterShotGateRejects
	CounterClearShotChecks
	CounterClearShotBlocked
	CounterTacklesAttempted
	CounterHeadersAttempted
	CounterSoftmaxDraws
	counterCount
)

var counterNames = [...]string{
	CounterShotGateChecks:   "shot_gate_checks",
	CounterShotGateAllowed:  "shot_gate_allowed",
	CounterShotGateRejects:  "shot_gate_rejects",
	CounterClearShotChecks:  "clear_shot_checks",
	CounterClearShotBlocked: "clear_shot_blocked",
	CounterTacklesAttempted: "tackles_attempted",
	CounterHeadersAttempted: "headers_attempted",
	CounterSoftmaxDraws:     "softmax_draws",
}

func (c Counter) String() string {
	if c >= 0 && c < counterCount {
		return counterNames[c]
	}
	return "unknown"
}

// Counters lists every counter in order.
func Counters() []Counter {
	out := make([]Counter, counterCount)
	for i := range out {
		out[i] = Counter(i)
	}
	return out
}

// Sink receives every counter increment, e.g. to mirror them into metrics.
type Sink interface {
	Inc(c Counter)
}

// Stats holds decision counters for balance diagnostics.
type Stats struct {
	counts [counterCount]uint64
}

// Get returns one counter.
func (s *Stats) Get(c Counter) uint64 {
	if c < 0 || c >= counterCount {
		return 0
	}
	return s.counts[c]
}

// Map returns every counter keyed by name.
func (s *Stats) Map() map[string]uint64 {
	m := make(map[string]uint64, counterCount)
	for _, c := range Counters() {
		m[c.String()] = s.counts[c]
	}
	return m
}

func (s *Stats) inc(c Counter) {
	s.counts[c]++
}
