package palette

import (
	"context"
	"log/slog"
	"sync"

	"github.com/optimosight/vto-go/service/lgr"
)

// Command is a color-selection command produced by UI handlers and consumed
// by the State. Keeps the compositor and the frame loop UI-agnostic.
type Command interface {
	isCommand()
}

type ApplyColor struct {
	Hex string
}

type ClearColor struct {
}

func (ApplyColor) isCommand() {}
func (ClearColor) isCommand() {}

// State is the single mutable cell holding the currently applied color.
// Mutations come from Apply/Clear or from the command channel; the frame
// loop reads it once per tick via Snapshot.
type State struct {
	mu      sync.Mutex
	rgb     RGB
	applied bool
}

func NewState() *State {
	return &State{}
}

func (s *State) Apply(rgb RGB) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rgb = rgb
	s.applied = true
}

func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rgb = RGB{}
	s.applied = false
}

// Snapshot returns the applied color at this instant. A tick takes one
// snapshot and uses it for the whole tick; a selection change mid-tick is
// deferred to the next tick.
func (s *State) Snapshot() (RGB, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rgb, s.applied
}

// Consume starts the command consumer and returns the channel UI producers
// send commands on. An ApplyColor with an unparseable hex clears the
// selection (parse failure means "no color").
func (s *State) Consume(canxCtx context.Context) chan<- Command {
	in := make(chan Command, 16)

	go func() {
		for {
			select {
			case <-canxCtx.Done():
				lgr.Logger.Info(
					"palette command consumer context cancelled",
				)
				return

			case cmd := <-in:
				switch cmd := cmd.(type) {
				case ApplyColor:
					rgb, ok := ParseHex(cmd.Hex)
					if !ok {
						lgr.Logger.Debug(
							"unparseable color treated as no color",
							slog.String("hex", cmd.Hex),
						)
						s.Clear()
						continue
					}
					s.Apply(rgb)

				case ClearColor:
					s.Clear()

				default:
					lgr.Logger.Warn(
						"unknown palette command",
						slog.Any("command", cmd),
					)
				}
			}
		}
	}()

	return in
}
