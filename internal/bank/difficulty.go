package bank

import (
	"strconv"
	"strings"
)

// Difficulty is a lower-case difficulty label. Numeric input on a 1-10
// scale is folded onto the four standard labels by ParseDifficulty; any
// other label (e.g. "12th-grade") is kept verbatim.
type Difficulty string

const (
	Easy         Difficulty = "easy"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
	Expert       Difficulty = "expert"

	DefaultDifficulty = Intermediate
)

// ParseDifficulty normalises user or config input into a Difficulty.
//
//	1-3  easy
//	4-6  intermediate
//	7-8  advanced
//	9-10 expert
func ParseDifficulty(s string) Difficulty {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultDifficulty
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Difficulty(s)
	}
	switch {
	case n <= 3:
		return Easy
	case n <= 6:
		return Intermediate
	case n <= 8:
		return Advanced
	default:
		return Expert
	}
}

func (d Difficulty) String() string { return string(d) }
