// Package session holds the state of one discovery run: the parameters, the
// current and pristine sequence sets, the log sink, and the deadline.
package session

import (
	"fmt"
	"os"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

type Session struct {
	Config

	// Pos and Neg are erased as motifs are found.
	Pos []string
	Neg []string

	// UnerasedPos and UnerasedNeg are copies taken before the first erasure.
	UnerasedPos []string
	UnerasedNeg []string

	Log      *bolt.Logger
	Start    time.Time
	Deadline time.Time // zero for no limit
}

// New resolves cfg, checks the sequence sets, and snapshots them. The
// deadline starts counting now.
func New(cfg Config, pos, neg []string, logger *bolt.Logger) (*Session, error) {
	if err := cfg.Resolve(); err != nil {
		return nil, err
	}
	if err := checkSeqs("positive", pos); err != nil {
		return nil, err
	}
	if err := checkSeqs("negative", neg); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewLogger(1, os.Stderr)
	}
	s := &Session{
		Config:      cfg,
		Pos:         pos,
		Neg:         neg,
		UnerasedPos: append([]string(nil), pos...),
		UnerasedNeg: append([]string(nil), neg...),
		Log:         logger,
		Start:       time.Now(),
	}
	if cfg.MaxTime > 0 {
		s.Deadline = s.Start.Add(cfg.MaxTime)
	}
	return s, nil
}

func checkSeqs(name string, seqs []string) error {
	if len(seqs) == 0 {
		return fmt.Errorf("%w: no %s sequences", ErrDegenerateInput, name)
	}
	for i := range seqs {
		if len(seqs[i]) == 0 {
			return fmt.Errorf("%w: %s sequence %d is empty", ErrDegenerateInput, name, i+1)
		}
	}
	return nil
}

// Check returns ErrTimeout once the deadline has passed.
func (s *Session) Check() error {
	if !s.Deadline.IsZero() && time.Now().After(s.Deadline) {
		return ErrTimeout
	}
	return nil
}

// Sub returns a session sharing everything with s except the current
// sequence sets, which are replaced by pos and neg.
func (s *Session) Sub(pos, neg []string) *Session {
	sub := *s
	sub.Pos = pos
	sub.Neg = neg
	return &sub
}

// Elapsed is the wall time since the session was created.
func (s *Session) Elapsed() time.Duration {
	return time.Since(s.Start)
}

// NewLogger maps a verbosity level (1 quiet to 5 dump) onto a console
// logger writing to out.
func NewLogger(verbosity int, out *os.File) *bolt.Logger {
	level := bolt.WARN
	switch {
	case verbosity >= 4:
		level = bolt.TRACE
	case verbosity == 3:
		level = bolt.DEBUG
	case verbosity == 2:
		level = bolt.INFO
	}
	return bolt.New(bolt.NewConsoleHandler(out)).SetLevel(level)
}
