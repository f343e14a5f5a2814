package cli

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerStopsCleanly(t *testing.T) {
	defer goleak.VerifyNone(t)

	out := &lockedBuffer{}
	s := NewSpinner(out)
	s.interval = time.Millisecond

	s.Start("Thinking")
	time.Sleep(5 * time.Millisecond)
	s.Stop()

	assert.Contains(t, out.String(), "Thinking")
	assert.True(t, strings.HasSuffix(out.String(), "\r\033[K"))
}

func TestSpinnerRestartAndDoubleStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewSpinner(&lockedBuffer{})
	s.interval = time.Millisecond

	s.Start("first")
	s.Start("ignored")
	s.Stop()
	s.Stop()

	s.Start("second")
	s.Stop()
}

func TestNewProgressIsSilentWhenPiped(t *testing.T) {
	var out bytes.Buffer
	p := NewProgress(&out)
	p.Start("Thinking")
	p.Stop()
	assert.Empty(t, out.String())
}
