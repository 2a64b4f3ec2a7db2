package term

import (
	"context"
	"log/slog"
	"time"

	"github.com/wtask/linechat/internal/chat/inbox"
)

// DefaultPollInterval - pause between session loop iterations.
const DefaultPollInterval = 30 * time.Millisecond

// Link - chat connection used by session.
type Link interface {
	Send(text string) error
	Alive() bool
	Incoming() *inbox.Queue
}

// KeySource - non-blocking key input.
type KeySource interface {
	// Poll - returns next key or KeyNone.
	Poll() Key
	// Next - returns next raw byte, used to complete multi-byte characters.
	Next() Key
}

// Exit - the reason session loop has stopped.
type Exit int

const (
	_ Exit = iota
	// ExitQuit - user has quit with Ctrl-D on empty line.
	ExitQuit
	// ExitInterrupt - user has pressed Ctrl-C or session context is done.
	ExitInterrupt
	// ExitDisconnected - connection to server is over.
	ExitDisconnected
	// ExitError - line submit failed.
	ExitError
)

func (e Exit) String() string {
	switch e {
	case ExitQuit:
		return "quit"
	case ExitInterrupt:
		return "interrupted"
	case ExitDisconnected:
		return "disconnected"
	case ExitError:
		return "error"
	default:
		return "unknown exit"
	}
}

type sessionState int

const (
	stateRunning sessionState = iota
	stateClosing
)

// SessionOption - customizes Session.
type SessionOption func(s *Session)

// WithPollInterval - overwrites DefaultPollInterval, non-positive values are ignored.
func WithPollInterval(interval time.Duration) SessionOption {
	return func(s *Session) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithLogger - attach structured logger.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// Session - event loop of the chat client terminal.
type Session struct {
	screen   Screen
	keys     KeySource
	link     Link
	chat     *Chat
	input    *Input
	interval time.Duration
	logger   *slog.Logger
	state    sessionState
}

// NewSession - builds session, the terminal must be in raw mode already.
func NewSession(screen Screen, keys KeySource, link Link, username string, options ...SessionOption) *Session {
	s := &Session{
		screen:   screen,
		keys:     keys,
		link:     link,
		chat:     NewChat(screen),
		input:    NewInput(screen, username, link, keys.Next),
		interval: DefaultPollInterval,
	}
	for _, option := range options {
		if option != nil {
			option(s)
		}
	}
	return s
}

// Chat - returns scrollback viewer of the session.
func (s *Session) Chat() *Chat {
	return s.chat
}

// Input - returns line editor of the session.
func (s *Session) Input() *Input {
	return s.input
}

// Running - reports the loop has not started closing.
func (s *Session) Running() bool {
	return s.state == stateRunning
}

// Run - runs the loop until user quits, connection is over or ctx is done.
func (s *Session) Run(ctx context.Context) (Exit, error) {
	s.state = stateRunning
	s.layout()
	s.flush()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		exit, done, err := s.step()
		s.flush()
		if done {
			s.state = stateClosing
			s.logDebug("Session is closing", "exit", exit.String())
			return exit, err
		}
		select {
		case <-ctx.Done():
			s.state = stateClosing
			s.logDebug("Session is closing", "exit", ExitInterrupt.String())
			return ExitInterrupt, nil
		case <-ticker.C:
		}
	}
}

func (s *Session) step() (exit Exit, done bool, err error) {
	key := s.keys.Poll()
	switch {
	case key == KeyCtrlC:
		return ExitInterrupt, true, nil
	case key == KeyCtrlD && s.input.Empty():
		return ExitQuit, true, nil
	}

	switch key {
	case KeyNone:
	case KeyResize:
		s.screen.Sync()
		s.layout()
	default:
		// each component reacts only to its own keys
		s.chat.HandleKey(key)
		s.input.HandleKey(key)
		if err := s.input.Err(); err != nil {
			return ExitError, true, err
		}
	}

	s.chat.Drain(s.link.Incoming())

	if !s.link.Alive() {
		return ExitDisconnected, true, nil
	}
	return 0, false, nil
}

// layout - retiles components over the whole screen and redraws them.
func (s *Session) layout() {
	width, height := s.screen.Size()
	chatView, inputView := Layout(width, height)
	s.logDebug("Layout", "width", width, "height", height)
	s.chat.Resize(chatView)
	s.input.Resize(inputView)
	s.chat.Redraw()
	s.input.Redraw()
}

func (s *Session) flush() {
	if err := s.screen.Flush(); err != nil {
		s.logDebug("Screen flush failed", "error", err)
	}
}

func (s *Session) logDebug(msg string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Debug(msg, args...)
}
