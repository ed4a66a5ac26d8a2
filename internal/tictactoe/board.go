package tictactoe

// Mark is the content of a single cell.
type Mark string

const (
	Empty Mark = ""
	X     Mark = "X"
	O     Mark = "O"
)

// Status is the state of the game machine.
type Status int

const (
	InProgress Status = iota
	Won
	Draw
)

func (that Status) String() string {
	switch that {
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Draw:
		return "draw"
	default:
		return "unknown"
	}
}

const BoardSize = 9

type Board [BoardSize]Mark

// WinCombos is checked in this order, the first complete line wins.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Outcome describes the board after a move.
type Outcome struct {
	Status Status
	Winner Mark
	Line   []int
}

// Evaluate - checks the board for a winning line or a draw.
func Evaluate(board Board) Outcome {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != Empty && a == b && b == c {
			return Outcome{
				Status: Won,
				Winner: a,
				Line:   []int{combo[0], combo[1], combo[2]},
			}
		}
	}

	if board.IsFull() {
		return Outcome{Status: Draw}
	}

	return Outcome{Status: InProgress}
}

func (that *Board) IsFull() bool {
	for _, cell := range that {
		if cell == Empty {
			return false
		}
	}

	return true
}

// Count returns how many cells hold the mark.
func (that *Board) Count(mark Mark) int {
	n := 0
	for _, cell := range that {
		if cell == mark {
			n++
		}
	}

	return n
}

func toggleMark(currentMark Mark) Mark {
	if currentMark == X {
		return O
	}
	return X
}
