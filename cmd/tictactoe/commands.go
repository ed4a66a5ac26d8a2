package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/console"
	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/entity"
)

const helpText = `Commands:
  0-8        place your mark on a cell
  x <name>   set Player X's name
  o <name>   set Player O's name
  restart    clear the board, keep the names
  new        clear the board and the names
  close      close the winner banner and play again
  show       redraw the board
  results    list the last 10 results
  help       show this help
  quit       leave the game
`

type action int

const (
	actionUnknown action = iota
	actionEvent
	actionShow
	actionResults
	actionHelp
	actionQuit
)

type command struct {
	action action
	event  console.Event
	raw    string
}

type recentResults interface {
	Recent(ctx context.Context) ([]*entity.Result, error)
}

func parseCommand(line string) command {
	raw := strings.TrimSpace(line)
	cmd := command{raw: raw}

	word, rest, _ := strings.Cut(raw, " ")
	switch strings.ToLower(word) {
	case "x":
		cmd.action = actionEvent
		cmd.event = console.Event{Type: console.NameXInput, Value: rest}
	case "o":
		cmd.action = actionEvent
		cmd.event = console.Event{Type: console.NameOInput, Value: rest}
	case "restart":
		cmd.action = actionEvent
		cmd.event = console.Event{Type: console.RestartClicked}
	case "new":
		cmd.action = actionEvent
		cmd.event = console.Event{Type: console.NewGameClicked}
	case "close":
		cmd.action = actionEvent
		cmd.event = console.Event{Type: console.OverlayClosed}
	case "show", "":
		cmd.action = actionShow
	case "results":
		cmd.action = actionResults
	case "help", "?":
		cmd.action = actionHelp
	case "quit", "exit", "q":
		cmd.action = actionQuit
	default:
		if cell, err := strconv.Atoi(word); err == nil && rest == "" {
			cmd.action = actionEvent
			cmd.event = console.Event{Type: console.CellClicked, Cell: cell}
		}
	}

	return cmd
}

func printResults(ctx context.Context, out io.Writer, results recentResults) {
	recent, err := results.Recent(ctx)
	if err != nil {
		fmt.Fprintf(out, "could not load results: %v\n", err)
		return
	}

	if len(recent) == 0 {
		fmt.Fprintln(out, "no results yet")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tPLAYER X\tPLAYER O\tWINNER")
	for _, result := range recent {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			result.Date.Local().Format(time.DateTime), result.PlayerX, result.PlayerO, result.Winner)
	}
	_ = tw.Flush()
}
