package network

import (
	"math"

	"github.com/iburimskiy/knowledge-network/internal/config"
)

// Evaluator rebuilds the live connection sets once per frame.
type Evaluator struct {
	MaxDistance float64
	// Hysteresis widens the threshold for pairs that have been connected before.
	Hysteresis float64
	// Persistence is the per-pass retention of dormant connection strength.
	Persistence float64
}

// NewEvaluator returns an evaluator with the default hysteresis margin.
func NewEvaluator(maxDistance, persistence float64) Evaluator {
	return Evaluator{
		MaxDistance: maxDistance,
		Hysteresis:  config.ConnectionHysteresis,
		Persistence: persistence,
	}
}

// Evaluate clears every live set and reconnects each unordered pair that fits
// under the cap and the (possibly widened) distance threshold.
//
// Strength of a pair connected for the first time is max(0.3, 1-d/max).
// A pair that stayed live since the previous pass keeps the higher of its
// stored and distance strength plus one step, so it never decreases. A
// remembered pair that reconnects after a gap resumes from its decayed
// strength if that is above the distance strength.
func (e Evaluator) Evaluate(nodes []*Node) {
	for _, n := range nodes {
		n.beginPass()
	}

	for i := 0; i < len(nodes); i++ {
		a := nodes[i]
		for j := i + 1; j < len(nodes); j++ {
			b := nodes[j]
			if len(a.links) >= config.MaxConnections || len(b.links) >= config.MaxConnections {
				continue
			}

			d := a.distanceTo(b)
			remembered := a.Remembers(b.id)
			threshold := e.MaxDistance
			if remembered {
				threshold += e.Hysteresis
			}
			if d > threshold {
				continue
			}

			s := e.baseStrength(d)
			prev, hasPrev := a.strengths[b.id]
			persisting := hasPrev && a.wasConnected(b.id)
			if remembered && hasPrev {
				s = math.Max(prev, s)
			}

			a.AddConnection(b.id, s)
			b.AddConnection(a.id, s)
			if persisting {
				a.StrengthenConnection(b.id, config.StrengthenStep)
				b.StrengthenConnection(a.id, config.StrengthenStep)
			}
		}
	}

	for _, n := range nodes {
		n.decayDormant(e.Persistence)
	}
}

func (e Evaluator) baseStrength(d float64) float64 {
	if e.MaxDistance <= 0 {
		return config.MinStrength
	}
	return math.Max(config.MinStrength, 1-d/e.MaxDistance)
}
