package console

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/entity"
	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-scoreboard/internal/transport/resultsapi"
)

const (
	DefaultOverlayDelay  = 500 * time.Millisecond
	DefaultStatusRevert  = 3 * time.Second
	DefaultSubmitTimeout = 5 * time.Second

	SavedMessage  = "Result saved to database!"
	FailedMessage = "Database error (check configuration)"
)

type EventType int

const (
	CellClicked EventType = iota + 1
	NameXInput
	NameOInput
	RestartClicked
	NewGameClicked
	OverlayClosed
)

// Event is a user interaction. Cell is used by CellClicked, Value by the name inputs.
type Event struct {
	Type  EventType
	Cell  int
	Value string
}

type StatusKind int

const (
	StatusTurn StatusKind = iota
	StatusSaved
	StatusFailed
)

type StatusLine struct {
	Text string
	Kind StatusKind
}

type Overlay struct {
	Visible bool
	Text    string
}

// View is a snapshot of everything the host displays.
type View struct {
	Cells       tictactoe.Board
	Highlighted []int
	ActiveMark  tictactoe.Mark
	PlayerX     string
	PlayerO     string
	NameXInput  string
	NameOInput  string
	Status      StatusLine
	Overlay     Overlay
}

type Submitter interface {
	Submit(ctx context.Context, in resultsapi.SubmitRequest) (*entity.Result, error)
}

type Option func(*Host)

func WithOverlayDelay(d time.Duration) Option {
	return func(h *Host) { h.overlayDelay = d }
}

func WithStatusRevert(d time.Duration) Option {
	return func(h *Host) { h.statusRevert = d }
}

func WithSubmitTimeout(d time.Duration) Option {
	return func(h *Host) {
		if d > 0 {
			h.submitTimeout = d
		}
	}
}

// Host owns one engine and its display. Events, timers and submission callbacks
// are serialized through mu.
type Host struct {
	logger    *slog.Logger
	submitter Submitter

	overlayDelay  time.Duration
	statusRevert  time.Duration
	submitTimeout time.Duration

	mu       sync.Mutex
	engine   *tictactoe.Engine
	handlers map[EventType]func(Event)
	view     View

	finishMessage string
	transient     bool
	// statusGen and overlayGen let stale timers recognize they were superseded.
	statusGen  uint64
	overlayGen uint64

	pending sync.WaitGroup
}

func NewHost(logger *slog.Logger, submitter Submitter, opts ...Option) *Host {
	that := &Host{
		logger:        logger.With("component", "console"),
		submitter:     submitter,
		overlayDelay:  DefaultOverlayDelay,
		statusRevert:  DefaultStatusRevert,
		submitTimeout: DefaultSubmitTimeout,
	}
	for _, opt := range opts {
		opt(that)
	}

	that.handlers = map[EventType]func(Event){
		CellClicked:    that.onCellClicked,
		NameXInput:     that.onNameXInput,
		NameOInput:     that.onNameOInput,
		RestartClicked: func(Event) { that.restart() },
		NewGameClicked: that.onNewGame,
		OverlayClosed:  that.onOverlayClosed,
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.engine = tictactoe.NewEngine((*engineListener)(that))
	that.engine.Restart()
	that.syncBoard()

	return that
}

// Dispatch - applies one event. Unknown events are ignored.
func (that *Host) Dispatch(event Event) {
	that.mu.Lock()
	defer that.mu.Unlock()

	handler, ok := that.handlers[event.Type]
	if !ok {
		that.logger.Debug("ignoring unknown event", "type", event.Type)
		return
	}

	handler(event)
	that.syncBoard()
}

func (that *Host) View() View {
	that.mu.Lock()
	defer that.mu.Unlock()

	view := that.view
	view.Highlighted = append([]int(nil), that.view.Highlighted...)
	return view
}

// Wait blocks until every started submission has completed.
func (that *Host) Wait() {
	that.pending.Wait()
}

func (that *Host) onCellClicked(event Event) {
	that.engine.SetPlayerNames(that.view.NameXInput, that.view.NameOInput)
	if !that.engine.PlayMove(event.Cell) {
		that.logger.Debug("move ignored", "cell", event.Cell)
	}
}

func (that *Host) onNameXInput(event Event) {
	that.view.NameXInput = event.Value
	that.engine.SetPlayerNames(that.view.NameXInput, that.view.NameOInput)
}

func (that *Host) onNameOInput(event Event) {
	that.view.NameOInput = event.Value
	that.engine.SetPlayerNames(that.view.NameXInput, that.view.NameOInput)
}

func (that *Host) onNewGame(Event) {
	that.view.NameXInput = ""
	that.view.NameOInput = ""
	that.clearFinish()
	that.engine.NewGame()
}

func (that *Host) onOverlayClosed(Event) {
	that.restart()
}

func (that *Host) restart() {
	that.clearFinish()
	that.engine.Restart()
}

func (that *Host) clearFinish() {
	that.view.Highlighted = nil
	that.view.Overlay = Overlay{}
	that.finishMessage = ""
	that.overlayGen++
}

func (that *Host) syncBoard() {
	state := that.engine.State()
	that.view.Cells = state.Board
	that.view.PlayerX = state.PlayerXName
	that.view.PlayerO = state.PlayerOName
}

func (that *Host) turnStatus() StatusLine {
	if that.finishMessage != "" {
		return StatusLine{Text: that.finishMessage, Kind: StatusTurn}
	}

	return StatusLine{
		Text: fmt.Sprintf("%s's Turn (%s)", that.engine.CurrentName(), that.engine.State().CurrentPlayer),
		Kind: StatusTurn,
	}
}

func (that *Host) showOverlayLater(message string) {
	that.overlayGen++
	gen := that.overlayGen

	time.AfterFunc(that.overlayDelay, func() {
		that.mu.Lock()
		defer that.mu.Unlock()

		if that.overlayGen == gen {
			that.view.Overlay = Overlay{Visible: true, Text: message}
		}
	})
}

// setTransient - shows a save status until statusRevert passes or a newer one replaces it.
func (that *Host) setTransient(text string, kind StatusKind) {
	that.statusGen++
	gen := that.statusGen

	that.transient = true
	that.view.Status = StatusLine{Text: text, Kind: kind}

	time.AfterFunc(that.statusRevert, func() {
		that.mu.Lock()
		defer that.mu.Unlock()

		if that.statusGen != gen {
			return
		}
		that.transient = false
		that.view.Status = that.turnStatus()
	})
}

func (that *Host) submit(finish tictactoe.Finish) {
	log := that.logger.With("method", "submit")

	req := resultsapi.SubmitRequest{
		PlayerX: finish.PlayerX,
		PlayerO: finish.PlayerO,
		Winner:  finish.Winner,
	}

	that.pending.Add(1)
	go func() {
		defer that.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), that.submitTimeout)
		defer cancel()

		result, err := that.submitter.Submit(ctx, req)

		that.mu.Lock()
		defer that.mu.Unlock()

		if err != nil {
			log.Warn("could not save result", "error", err)
			that.setTransient(FailedMessage, StatusFailed)
			return
		}

		if result != nil {
			log.Info("result saved", "id", result.ID, "winner", result.Winner)
		}
		that.setTransient(SavedMessage, StatusSaved)
	}()
}

// engineListener receives engine callbacks, which always run with mu held.
type engineListener Host

func (that *engineListener) TurnChanged(_ string, mark tictactoe.Mark) {
	host := (*Host)(that)

	host.view.ActiveMark = mark
	if !host.transient {
		host.view.Status = host.turnStatus()
	}
}

func (that *engineListener) GameFinished(finish tictactoe.Finish) {
	host := (*Host)(that)

	host.finishMessage = finish.Message
	host.view.Highlighted = append([]int(nil), finish.Line...)
	if !host.transient {
		host.view.Status = host.turnStatus()
	}

	host.showOverlayLater(finish.Message)
	host.submit(finish)
}
