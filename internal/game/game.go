// Package game holds the small vocabulary shared by the concrete games and the search engine.
package game

// Side identifies one of the two players. First moves first (white in chess, X in tic-tac-toe).
type Side uint8

const (
	First Side = iota
	Second
)

// Other returns the opposing side.
func (s Side) Other() Side {
	return s ^ 1
}

// Sign returns +1 for First and -1 for Second, the sign of a score that favours the side.
func (s Side) Sign() float64 {
	if s == First {
		return 1
	}
	return -1
}

// String returns the side name.
func (s Side) String() string {
	if s == First {
		return "first"
	}
	return "second"
}

// Status is the coarse state of a game.
type Status uint8

const (
	InProgress Status = iota
	Decided
	Drawn
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case InProgress:
		return "in-progress"
	case Decided:
		return "decided"
	case Drawn:
		return "drawn"
	default:
		return "unknown"
	}
}

// Reason explains why a game ended.
type Reason uint8

const (
	NoReason Reason = iota
	Checkmate
	Stalemate
	FiftyMoves
	Repetition
	Resignation
	Line
	BoardFull
)

var reasonNames = [...]string{"", "checkmate", "stalemate", "fifty-move rule", "threefold repetition", "resignation", "three in a row", "board full"}

// String returns the reason in words.
func (r Reason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return "unknown"
}

// Outcome is the result of a position. Winner is only meaningful when Status is Decided.
type Outcome struct {
	Status Status
	Winner Side
	Reason Reason
}

// Ongoing is the outcome of an undecided position.
var Ongoing = Outcome{Status: InProgress}

// Win returns a decided outcome in favour of side.
func Win(side Side, reason Reason) Outcome {
	return Outcome{Status: Decided, Winner: side, Reason: reason}
}

// Draw returns a drawn outcome.
func Draw(reason Reason) Outcome {
	return Outcome{Status: Drawn, Reason: reason}
}

// Over reports whether the game has ended.
func (o Outcome) Over() bool {
	return o.Status != InProgress
}

// Score returns +1 when First won, -1 when Second won and 0 otherwise.
func (o Outcome) Score() float64 {
	if o.Status != Decided {
		return 0
	}
	return o.Winner.Sign()
}

// String renders the outcome as "1-0", "0-1", "1/2-1/2" or "*".
func (o Outcome) String() string {
	switch o.Status {
	case Decided:
		if o.Winner == First {
			return "1-0"
		}
		return "0-1"
	case Drawn:
		return "1/2-1/2"
	default:
		return "*"
	}
}
