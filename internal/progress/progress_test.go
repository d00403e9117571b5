package progress

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

// recordingReporter captures every update so tests can check the totals a
// counting reader pushes through.
type recordingReporter struct {
	total   int64
	updates []int64
	done    bool
}

func (r *recordingReporter) Start(total int64, description string) { r.total = total }
func (r *recordingReporter) Update(current int64)                  { r.updates = append(r.updates, current) }
func (r *recordingReporter) Finish()                               { r.done = true }
func (r *recordingReporter) Error(err error)                       {}

// TestCountingReaderReportsRunningTotal verifies that reads are reported as
// a monotonic byte count ending at the full payload size.
func TestCountingReaderReportsRunningTotal(t *testing.T) {
	payload := []byte("0123456789")
	rep := &recordingReporter{}
	cr := NewCountingReader(bytes.NewReader(payload), rep)

	buf := make([]byte, 3)
	var sink bytes.Buffer
	if _, err := io.CopyBuffer(&sink, cr, buf); err != nil {
		t.Fatalf("CopyBuffer() error = %v", err)
	}

	if len(rep.updates) == 0 {
		t.Fatal("no updates reported")
	}
	var prev int64
	for _, u := range rep.updates {
		if u < prev {
			t.Errorf("updates not monotonic: %v", rep.updates)
			break
		}
		prev = u
	}
	if got := rep.updates[len(rep.updates)-1]; got != int64(len(payload)) {
		t.Errorf("final update = %d, want %d", got, len(payload))
	}
	if sink.String() != string(payload) {
		t.Errorf("copied payload = %q, want %q", sink.String(), payload)
	}
}

// TestSingleBarRendersToWriter verifies the bar draws to its writer and
// carries the transfer description.
func TestSingleBarRendersToWriter(t *testing.T) {
	var buf bytes.Buffer
	p := &SingleBar{out: &buf}

	p.Start(4, "fetch")
	p.Update(4)
	p.Finish()

	if buf.Len() == 0 {
		t.Fatal("bar produced no output")
	}
	if !strings.Contains(buf.String(), "fetch") {
		t.Errorf("bar output missing description: %q", buf.String())
	}
}

// TestSingleBarErrorPrintsFailure verifies failures surface under the bar.
func TestSingleBarErrorPrintsFailure(t *testing.T) {
	var buf bytes.Buffer
	p := &SingleBar{out: &buf}

	p.Error(io.ErrUnexpectedEOF)
	if !strings.Contains(buf.String(), "unexpected EOF") {
		t.Errorf("output = %q, want the error message", buf.String())
	}
}
