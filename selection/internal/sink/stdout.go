package sink

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/akhatua2/designx/selection/region"
)

// Stdout writes JSON lines to a writer (os.Stdout by default).
type Stdout struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewStdout creates a Stdout sink. A nil writer means os.Stdout.
func NewStdout(w io.Writer) *Stdout {
	if w == nil {
		w = os.Stdout
	}
	return &Stdout{enc: json.NewEncoder(w)}
}

func (s *Stdout) Send(_ context.Context, sel region.SelectedRegion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(envelope{Type: "selection", Data: sel})
}

func (s *Stdout) SendState(_ context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(envelope{Type: "state", Data: state})
}

func (s *Stdout) Close() error { return nil }
