package spinner

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStartOnNonTerminalDrawsNothing(t *testing.T) {
	var buf syncBuffer
	stop := Start(&buf, "loading results")
	time.Sleep(3 * interval)
	stop()
	stop()
	assert.Empty(t, buf.String())
}

func TestRunDrawsAndClears(t *testing.T) {
	var buf syncBuffer
	stop := run(&buf, "loading")
	time.Sleep(3 * interval)
	stop()
	stop()

	out := buf.String()
	assert.Contains(t, out, "loading")
	assert.True(t, strings.HasSuffix(out, "\r"+strings.Repeat(" ", len("loading")+2)+"\r"))
}
