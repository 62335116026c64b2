package tictactoe

// Fixed-seed keys so hashes agree across processes.
var (
	cellKeys [2][9]uint64
	sideKey  uint64
)

func init() {
	state := uint64(0x7A3C59E1D24B8F06)
	next := func() uint64 {
		state ^= state >> 12
		state ^= state << 25
		state ^= state >> 27
		return state * 0x2545F4914F6CDD1D
	}
	for m := range cellKeys {
		for i := range cellKeys[m] {
			cellKeys[m][i] = next()
		}
	}
	sideKey = next()
}
