package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		name  string
		o     Outcome
		over  bool
		score float64
		text  string
	}{
		{"ongoing", Ongoing, false, 0, "*"},
		{"first wins", Win(First, Checkmate), true, 1, "1-0"},
		{"second wins", Win(Second, Resignation), true, -1, "0-1"},
		{"draw", Draw(Repetition), true, 0, "1/2-1/2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.over, tt.o.Over())
			assert.Equal(t, tt.score, tt.o.Score())
			assert.Equal(t, tt.text, tt.o.String())
		})
	}
}

func TestSide(t *testing.T) {
	assert.Equal(t, Second, First.Other())
	assert.Equal(t, First, Second.Other())
	assert.Equal(t, -1.0, Second.Sign())
	assert.Equal(t, "threefold repetition", Repetition.String())
}
