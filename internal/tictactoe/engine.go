package tictactoe

import (
	"fmt"
	"strings"
)

const (
	DefaultPlayerXName = "Player X"
	DefaultPlayerOName = "Player O"

	DrawWinner = "Draw"
)

// GameState holds everything the engine mutates.
type GameState struct {
	Board         Board
	CurrentPlayer Mark
	Active        bool
	PlayerXName   string
	PlayerOName   string
}

// Finish is reported once when a game reaches Won or Draw.
type Finish struct {
	PlayerX string
	PlayerO string
	// Winner is the winning player's name or DrawWinner.
	Winner  string
	Mark    Mark
	Line    []int
	Message string
}

// Listener receives the engine's display triggers.
type Listener interface {
	TurnChanged(name string, mark Mark)
	GameFinished(finish Finish)
}

type nopListener struct{}

func (nopListener) TurnChanged(string, Mark) {}
func (nopListener) GameFinished(Finish)      {}

// Engine is a single two-player game. It is not safe for concurrent use,
// the owner serializes calls.
type Engine struct {
	state    GameState
	outcome  Outcome
	listener Listener
}

func NewEngine(listener Listener) *Engine {
	if listener == nil {
		listener = nopListener{}
	}

	that := &Engine{
		listener: listener,
		state: GameState{
			PlayerXName: DefaultPlayerXName,
			PlayerOName: DefaultPlayerOName,
		},
	}
	that.reset()

	return that
}

// State returns a copy of the current game state.
func (that *Engine) State() GameState {
	return that.state
}

func (that *Engine) Status() Status {
	return that.outcome.Status
}

func (that *Engine) Outcome() Outcome {
	return that.outcome
}

// CurrentName - returns the display name of the player to move.
func (that *Engine) CurrentName() string {
	return that.nameOf(that.state.CurrentPlayer)
}

// SetPlayerNames - trims the names and falls back to the defaults when blank.
func (that *Engine) SetPlayerNames(xName, oName string) {
	that.state.PlayerXName = nameOrDefault(xName, DefaultPlayerXName)
	that.state.PlayerOName = nameOrDefault(oName, DefaultPlayerOName)

	that.notifyTurn()
}

// PlayMove - places the current player's mark. Moves outside the board, onto an occupied
// cell or after the game ended are ignored and false is returned.
func (that *Engine) PlayMove(cell int) bool {
	if !that.state.Active || that.outcome.Status != InProgress {
		return false
	}

	if cell < 0 || cell >= BoardSize {
		return false
	}

	if that.state.Board[cell] != Empty {
		return false
	}

	that.state.Board[cell] = that.state.CurrentPlayer
	that.evaluateTermination()

	return true
}

// Restart - clears the board and keeps the names.
func (that *Engine) Restart() {
	that.reset()
	that.notifyTurn()
}

// NewGame - clears the board and resets the names.
func (that *Engine) NewGame() {
	that.state.PlayerXName = DefaultPlayerXName
	that.state.PlayerOName = DefaultPlayerOName
	that.Restart()
}

func (that *Engine) reset() {
	that.state.Board = Board{}
	that.state.CurrentPlayer = X
	that.state.Active = true
	that.outcome = Outcome{Status: InProgress}
}

func (that *Engine) evaluateTermination() {
	outcome := Evaluate(that.state.Board)

	switch outcome.Status {
	case Won:
		that.finish(outcome, that.nameOf(outcome.Winner),
			fmt.Sprintf("%s (%s) Wins!", that.nameOf(outcome.Winner), outcome.Winner))
	case Draw:
		that.finish(outcome, DrawWinner, "Match Draw!")
	default:
		that.state.CurrentPlayer = toggleMark(that.state.CurrentPlayer)
		that.notifyTurn()
	}
}

func (that *Engine) finish(outcome Outcome, winner, message string) {
	that.outcome = outcome
	that.state.Active = false

	that.listener.GameFinished(Finish{
		PlayerX: that.state.PlayerXName,
		PlayerO: that.state.PlayerOName,
		Winner:  winner,
		Mark:    outcome.Winner,
		Line:    outcome.Line,
		Message: message,
	})
}

func (that *Engine) notifyTurn() {
	if !that.state.Active {
		return
	}

	that.listener.TurnChanged(that.CurrentName(), that.state.CurrentPlayer)
}

func (that *Engine) nameOf(mark Mark) string {
	if mark == O {
		return that.state.PlayerOName
	}
	return that.state.PlayerXName
}

func nameOrDefault(name, fallback string) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	return fallback
}
