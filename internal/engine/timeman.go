package engine

import (
	"fmt"
	"time"

	"github.com/hailam/ampersand/internal/board"
)

type controlKind uint8

const (
	controlInfinite controlKind = iota
	controlDepth
	controlMoveTime
	controlNodes
	controlClock
)

// TimeControl is how the caller limits a move selection.
type TimeControl struct {
	kind      controlKind
	depth     int
	moveTime  time.Duration
	nodes     uint64
	remaining [2]time.Duration // indexed by board.Color
	increment [2]time.Duration
}

// Depth searches exactly to depth d with no time or node limit.
func Depth(d int) TimeControl { return TimeControl{kind: controlDepth, depth: d} }

// MoveTime thinks for a fixed wall-clock duration.
func MoveTime(t time.Duration) TimeControl { return TimeControl{kind: controlMoveTime, moveTime: t} }

// Nodes caps the nodes visited in any single iteration.
func Nodes(n uint64) TimeControl { return TimeControl{kind: controlNodes, nodes: n} }

// Clock plays from the remaining time and increment of both sides.
func Clock(remaining, increment [2]time.Duration) TimeControl {
	return TimeControl{kind: controlClock, remaining: remaining, increment: increment}
}

// Infinite searches until stopped.
func Infinite() TimeControl { return TimeControl{kind: controlInfinite} }

// plan turns the control into a budget and a depth cap for the side us,
// starting the clock at now.
func (tc TimeControl) plan(now time.Time, us board.Color) (Budget, int) {
	switch tc.kind {
	case controlDepth:
		return Unbounded(), tc.depth
	case controlMoveTime:
		return ByDeadline(now.Add(tc.moveTime)), maxDepth
	case controlNodes:
		return ByNodeCount(tc.nodes), maxDepth
	case controlClock:
		return ByDeadline(now.Add(allotment(tc.remaining[us], tc.increment[us]))), maxDepth
	}
	return Unbounded(), maxDepth
}

// allotment spends a twentieth of the remaining clock plus most of the
// increment.
func allotment(remaining, increment time.Duration) time.Duration {
	return remaining/20 + increment*3/4
}

func (tc TimeControl) String() string {
	switch tc.kind {
	case controlDepth:
		return fmt.Sprintf("depth %d", tc.depth)
	case controlMoveTime:
		return fmt.Sprintf("movetime %s", tc.moveTime)
	case controlNodes:
		return fmt.Sprintf("nodes %d", tc.nodes)
	case controlClock:
		return fmt.Sprintf("clock w=%s+%s b=%s+%s",
			tc.remaining[board.White], tc.increment[board.White],
			tc.remaining[board.Black], tc.increment[board.Black])
	}
	return "infinite"
}
