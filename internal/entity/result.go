package entity

import (
	"time"

	"github.com/google/uuid"
)

const DrawWinner = "Draw"

// Result is one finished match. It is never changed after it is stored.
type Result struct {
	ID      string    `json:"id"`
	PlayerX string    `json:"playerX"`
	PlayerO string    `json:"playerO"`
	Winner  string    `json:"winner"`
	Date    time.Time `json:"date"`
}

func NewResult(playerX, playerO, winner string, date time.Time) *Result {
	return &Result{
		ID:      uuid.NewString(),
		PlayerX: playerX,
		PlayerO: playerO,
		Winner:  winner,
		Date:    date.UTC(),
	}
}

func (that *Result) IsDraw() bool {
	return that.Winner == DrawWinner
}
