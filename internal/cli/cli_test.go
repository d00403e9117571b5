package cli

import (
	"os"
	"path/filepath"
	"testing"
)

// TestSplitEntry covers directory/name separation for repository paths.
func TestSplitEntry(t *testing.T) {
	tests := []struct {
		path, dir, name string
	}{
		{"a.txt", "", "a.txt"},
		{"docs/a.txt", "docs", "a.txt"},
		{"docs/sub/a.txt", "docs/sub", "a.txt"},
		{"/docs/a.txt/", "docs", "a.txt"},
	}
	for _, tt := range tests {
		dir, name := splitEntry(tt.path)
		if dir != tt.dir || name != tt.name {
			t.Errorf("splitEntry(%q) = (%q, %q), want (%q, %q)",
				tt.path, dir, name, tt.dir, tt.name)
		}
	}
}

// TestRedact verifies secrets never print in full.
func TestRedact(t *testing.T) {
	if got := redact(""); got != "(not set)" {
		t.Errorf("redact(empty) = %q", got)
	}
	if got := redact("abcd"); got != "****" {
		t.Errorf("redact(short) = %q", got)
	}
	if got := redact("ghp_secret1234"); got != "****1234" {
		t.Errorf("redact(token) = %q", got)
	}
}

// TestShortHash verifies display truncation.
func TestShortHash(t *testing.T) {
	if got := shortHash("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortHash() = %q, want 01234567", got)
	}
	if got := shortHash("ab"); got != "ab" {
		t.Errorf("shortHash(short) = %q, want ab", got)
	}
}

// TestCommandWiring verifies every command group is registered.
func TestCommandWiring(t *testing.T) {
	root := NewRootCmd()
	AddCommands(root)

	want := []string{"files", "watch", "users", "notify", "update", "config"}
	for _, name := range want {
		found := false
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

// TestFilesSubcommands verifies the files group carries every operation.
func TestFilesSubcommands(t *testing.T) {
	files := newFilesCmd()
	want := []string{"ls", "upload", "download", "mkdir", "rm", "mv", "rename", "cat", "edit-save"}
	for _, name := range want {
		found := false
		for _, c := range files.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("files subcommand %q not registered", name)
		}
	}
}

// countingSink records the byte totals a transfer reports while writing.
type countingSink struct{ updates []int64 }

func (c *countingSink) Start(total int64, description string) {}
func (c *countingSink) Update(current int64)                  { c.updates = append(c.updates, current) }
func (c *countingSink) Finish()                               {}
func (c *countingSink) Error(err error)                       {}

// TestWriteLocalFileReportsBytes verifies downloaded content lands on disk
// byte for byte and the transfer reporter sees the full size.
func TestWriteLocalFileReportsBytes(t *testing.T) {
	data := []byte("manual contents")
	local := filepath.Join(t.TempDir(), "manual.pdf")

	sink := &countingSink{}
	if err := writeLocalFile(local, data, sink); err != nil {
		t.Fatalf("writeLocalFile() error = %v", err)
	}

	got, err := os.ReadFile(local)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("file contents = %q, want %q", got, data)
	}
	if len(sink.updates) == 0 || sink.updates[len(sink.updates)-1] != int64(len(data)) {
		t.Errorf("reported updates = %v, want final %d", sink.updates, len(data))
	}
}
