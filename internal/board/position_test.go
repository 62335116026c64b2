package board

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

var testFENs = []string{
	StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
}

func TestParseFENRoundTrip(t *testing.T) {
	for _, fen := range testFENs {
		pos, err := ParseFEN(fen)
		require.NoError(t, err)
		assert.Equal(t, fen, pos.FEN())
		assert.Equal(t, pos.computeHash(), pos.Hash())
		assert.Equal(t, 1, pos.Repetitions())
	}
}

func TestParseFENErrors(t *testing.T) {
	tests := []struct {
		name        string
		fen         string
		missingKing bool
	}{
		{"too few fields", "8/8/8/8/8/8/8/8 w", false},
		{"seven ranks", "8/8/8/8/8/8/8 w - - 0 1", false},
		{"bad piece", "rnbqkbnr/ppppzppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", false},
		{"long rank", "rnbqkbnr/ppppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", false},
		{"bad side", "4k3/8/8/8/8/8/8/4K3 x - - 0 1", false},
		{"bad castling", "4k3/8/8/8/8/8/8/4K3 w X - 0 1", false},
		{"bad en passant", "4k3/8/8/8/8/8/8/4K3 w - e4 0 1", false},
		{"bad clock", "4k3/8/8/8/8/8/8/4K3 w - - x 1", false},
		{"pawn on last rank", "P3k3/8/8/8/8/8/8/4K3 w - - 0 1", false},
		{"opponent in check", "4k3/4R3/8/8/8/8/8/4K3 w - - 0 1", false},
		{"no black king", "8/8/8/8/8/8/8/4K3 w - - 0 1", true},
		{"two white kings", "4k3/8/8/8/8/8/8/3KK3 w - - 0 1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFEN(tt.fen)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrConstruction)
			assert.Equal(t, tt.missingKing, errors.Is(err, ErrMissingKing))

			var cerr *ConstructionError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.fen, cerr.FEN)
		})
	}
}

func TestApplyUndoRestoresEncoding(t *testing.T) {
	for _, fen := range testFENs {
		pos, err := ParseFEN(fen)
		require.NoError(t, err)

		for _, m := range pos.LegalMoves() {
			pos.Apply(m)
			assert.Equal(t, pos.computeHash(), pos.Hash(), "hash after %s", m)
			pos.Undo()
			require.Equal(t, fen, pos.FEN(), "after %s", m)
			require.Equal(t, pos.computeHash(), pos.Hash())
		}
	}
}

func TestCloneIsolation(t *testing.T) {
	pos, err := ParseFEN(testFENs[1])
	require.NoError(t, err)
	pos.Apply(pos.LegalMoves()[0])

	clone := pos.Clone()
	require.Equal(t, pos.FEN(), clone.FEN())
	require.Equal(t, pos.Hash(), clone.Hash())
	require.Equal(t, pos.LegalMoves(), clone.LegalMoves())

	before := pos.FEN()
	for i := 0; i < 6 && !clone.Outcome().Over(); i++ {
		clone.Apply(clone.LegalMoves()[0])
	}
	assert.NotEqual(t, before, clone.FEN())
	assert.Equal(t, before, pos.FEN())
	assert.Equal(t, 1, pos.Plies())

	// The clone carries no history of its own past the cloned position.
	for clone.Plies() > 0 {
		clone.Undo()
	}
	assert.Equal(t, before, clone.FEN())
	assert.PanicsWithValue(t, ErrEmptyHistory, clone.Undo)
}

func TestApplyIllegalMovePanics(t *testing.T) {
	pos := NewPosition()
	bogus := newMove(NewSquare(4, 1), NewSquare(4, 5), WhitePawn, NoPiece) // e2e6

	defer func() {
		r := recover()
		require.NotNil(t, r)
		require.IsType(t, &IllegalMoveError{}, r)
		assert.Equal(t, StartFEN, pos.FEN())
	}()
	pos.Apply(bogus)
}

func TestLegalMovesNeverLeaveKingAttacked(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for game := 0; game < 20; game++ {
		pos := NewPosition()
		for ply := 0; ply < 150 && !pos.Outcome().Over(); ply++ {
			moves := pos.LegalMoves()
			m := moves[rng.Intn(len(moves))]
			mover := pos.SideToMove()

			pos.Apply(m)
			require.False(t, pos.IsSquareAttacked(pos.KingSquare(mover), pos.SideToMove()),
				"%s left the king attacked: %s", m, pos.FEN())
			require.Equal(t, pos.computeHash(), pos.Hash())
		}
		for pos.Plies() > 0 {
			pos.Undo()
		}
		require.Equal(t, StartFEN, pos.FEN())
	}
}

func TestCastlingRights(t *testing.T) {
	pos, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	kinds := map[Kind]int{}
	for _, m := range pos.LegalMoves() {
		kinds[m.Kind]++
	}
	assert.Equal(t, 1, kinds[ShortCastle])
	assert.Equal(t, 1, kinds[LongCastle])

	// Capturing the h8 rook revokes black's short castle and white's own.
	m, err := pos.ParseMove("Rh1xh8")
	require.NoError(t, err)
	pos.Apply(m)
	assert.Equal(t, "Qq", pos.Castling().String())
	pos.Undo()
	assert.Equal(t, "KQkq", pos.Castling().String())

	// An attacked transit square forbids castling on that wing only.
	pos, err = ParseFEN("r3k2r/8/8/8/8/8/5r2/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	for _, m := range pos.LegalMoves() {
		assert.NotEqual(t, ShortCastle, m.Kind)
	}
}

func TestEnPassantOnlyNextPly(t *testing.T) {
	pos := NewPosition()
	for _, tok := range []string{"e2e4", "a7a6", "e4e5", "d7d5"} {
		m, err := pos.ParseMove(tok)
		require.NoError(t, err)
		pos.Apply(m)
	}
	require.Equal(t, "d6", pos.EnPassant().String())

	ep, err := pos.ParseMove("e5xd6ep")
	require.NoError(t, err)
	require.Equal(t, EnPassant, ep.Kind)

	pos.Apply(ep)
	assert.Equal(t, NoPiece, pos.PieceAt(NewSquare(3, 4)))
	pos.Undo()
	assert.Equal(t, BlackPawn, pos.PieceAt(NewSquare(3, 4)))

	// A waiting move on each side forfeits the capture.
	for _, tok := range []string{"Ng1f3", "Ng8f6"} {
		m, err := pos.ParseMove(tok)
		require.NoError(t, err)
		pos.Apply(m)
	}
	_, err = pos.ParseMove("e5xd6")
	require.ErrorIs(t, err, ErrNoSuchMove)
}
