// Package cli provides content repository file commands.
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ifor-lux/luxconsole/internal/browser"
	"github.com/ifor-lux/luxconsole/internal/classify"
	"github.com/ifor-lux/luxconsole/internal/constants"
	"github.com/ifor-lux/luxconsole/internal/progress"
	"github.com/ifor-lux/luxconsole/internal/store"
	"github.com/ifor-lux/luxconsole/internal/util/paths"
)

// newFilesCmd creates the 'files' command group.
func newFilesCmd() *cobra.Command {
	filesCmd := &cobra.Command{
		Use:   "files",
		Short: "Content repository operations (list, upload, download, rename, move)",
		Long:  `Commands for browsing and mutating the app's content repository.`,
	}

	filesCmd.AddCommand(newFilesListCmd())
	filesCmd.AddCommand(newFilesUploadCmd())
	filesCmd.AddCommand(newFilesDownloadCmd())
	filesCmd.AddCommand(newFilesMkdirCmd())
	filesCmd.AddCommand(newFilesRemoveCmd())
	filesCmd.AddCommand(newFilesMoveCmd())
	filesCmd.AddCommand(newFilesRenameCmd())
	filesCmd.AddCommand(newFilesCatCmd())
	filesCmd.AddCommand(newFilesEditSaveCmd())

	return filesCmd
}

// sessionAt opens a browsing session and walks it down to dir, fetching
// each level so entries carry their current hashes.
func sessionAt(ctx context.Context, client *store.Client, dir string) (*browser.Session, error) {
	s := browser.NewSession(client, nil, GetLogger())
	if err := s.Refresh(ctx, true); err != nil {
		return nil, err
	}
	for _, seg := range paths.Split(dir) {
		if _, ok := s.ItemByName(seg); !ok {
			return nil, fmt.Errorf("directory %q not found", seg)
		}
		if err := s.Enter(ctx, seg); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// splitEntry separates a repository path into its directory and entry name.
func splitEntry(path string) (dir, name string) {
	path = strings.Trim(path, "/")
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return "", path
	}
	return path[:idx], path[idx+1:]
}

// errEntryNotFound marks a lookup miss so rm can treat it as success.
var errEntryNotFound = errors.New("entry not found")

// lookupEntry opens a session at the entry's directory and finds the entry.
func lookupEntry(ctx context.Context, client *store.Client, path string) (*browser.Session, store.Item, error) {
	dir, name := splitEntry(path)
	s, err := sessionAt(ctx, client, dir)
	if err != nil {
		return nil, store.Item{}, err
	}
	item, ok := s.ItemByName(name)
	if !ok {
		return nil, store.Item{}, fmt.Errorf("%q: %w", path, errEntryNotFound)
	}
	return s, item, nil
}

// newFilesListCmd creates the 'files ls' command.
func newFilesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List a repository directory",
		Long: `List the entries of a repository directory.

Examples:
  # List the repository root
  luxconsole files ls

  # List a subdirectory
  luxconsole files ls docs/guides`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getStoreClient()
			if err != nil {
				return err
			}

			dir := ""
			if len(args) == 1 {
				dir = strings.Trim(args[0], "/")
			}

			s, err := sessionAt(GetContext(), client, dir)
			if err != nil {
				return err
			}

			items := s.Listing()
			sort.Slice(items, func(i, j int) bool {
				if items[i].IsDir() != items[j].IsDir() {
					return items[i].IsDir()
				}
				return items[i].Name < items[j].Name
			})

			tbl := table.New("NAME", "TYPE", "HASH")
			for _, it := range items {
				tbl.AddRow(it.Name, classify.For(it.Name, it.IsDir()), shortHash(it.SHA))
			}
			tbl.Print()
			fmt.Printf("\n%d entries\n", len(items))
			return nil
		},
	}
	return cmd
}

func shortHash(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}

// newFilesUploadCmd creates the 'files upload' command.
func newFilesUploadCmd() *cobra.Command {
	var targetDir string
	var maxConcurrent int

	cmd := &cobra.Command{
		Use:   "upload <file> [file...]",
		Short: "Upload local files to the repository",
		Long: `Upload one or more local files to a repository directory.

An upload to an existing name overwrites the stored content.

Examples:
  # Upload a single file to the root
  luxconsole files upload banner.png

  # Upload several files concurrently into a directory
  luxconsole files upload *.png --to images --max-concurrent 8`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxConcurrent < constants.MinMaxConcurrent || maxConcurrent > constants.MaxMaxConcurrent {
				return fmt.Errorf("--max-concurrent must be between %d and %d, got %d",
					constants.MinMaxConcurrent, constants.MaxMaxConcurrent, maxConcurrent)
			}

			client, err := getStoreClient()
			if err != nil {
				return err
			}

			return executeUpload(GetContext(), client, args, strings.Trim(targetDir, "/"), maxConcurrent)
		},
	}

	cmd.Flags().StringVar(&targetDir, "to", "", "Target repository directory (default root)")
	cmd.Flags().IntVar(&maxConcurrent, "max-concurrent", constants.DefaultMaxConcurrent, "Concurrent uploads")
	return cmd
}

// executeUpload pushes the files through a bounded worker pool with a
// multi-bar batch view.
func executeUpload(ctx context.Context, client *store.Client, files []string, targetDir string, maxConcurrent int) error {
	ui := progress.NewBatchUI(len(files))
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i, localPath := range files {
		wg.Add(1)
		go func(index int, localPath string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			name := filepath.Base(localPath)
			info, err := os.Stat(localPath)
			var bar *progress.FileBar
			if err == nil {
				bar = ui.AddFileBar(index+1, name, "upload", info.Size())
			} else {
				bar = ui.AddFileBar(index+1, name, "upload", 0)
			}
			if err == nil {
				var content []byte
				content, err = os.ReadFile(localPath)
				if err == nil {
					_, err = client.Put(ctx, paths.Child(targetDir, name), "Upload "+name, content, "")
				}
			}
			bar.Complete(err)

			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("uploading %s: %w", name, err)
				}
				mu.Unlock()
			}
		}(i, localPath)
	}

	wg.Wait()
	ui.Wait()
	return firstErr
}

// newFilesDownloadCmd creates the 'files download' command.
func newFilesDownloadCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "download <path> [path...]",
		Short: "Download repository files",
		Long: `Download one or more repository files to a local directory.

Examples:
  # Download into the current directory
  luxconsole files download docs/manual.pdf

  # Download several files into a directory
  luxconsole files download images/a.png images/b.png --outdir ./assets`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getStoreClient()
			if err != nil {
				return err
			}
			ctx := GetContext()

			reporter := newTransferReporter()

			for _, remote := range args {
				s, item, err := lookupEntry(ctx, client, remote)
				if err != nil {
					return err
				}

				data, err := s.Download(ctx, item)
				if err != nil {
					reporter.Error(err)
					return fmt.Errorf("downloading %s: %w", remote, err)
				}

				local := filepath.Join(outDir, item.Name)
				reporter.Start(int64(len(data)), item.Name)
				if err := writeLocalFile(local, data, reporter); err != nil {
					reporter.Error(err)
					return fmt.Errorf("writing %s: %w", local, err)
				}
				reporter.Finish()
				fmt.Printf("✓ %s (%d bytes)\n", local, len(data))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "outdir", ".", "Local output directory")
	return cmd
}

// newTransferReporter picks the progress surface for one-off transfers: a
// live byte bar on a terminal, nothing when stderr is piped.
func newTransferReporter() progress.Reporter {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return progress.NewSingleBar()
	}
	return progress.Silent{}
}

// writeLocalFile writes data to path, reporting bytes as they land.
func writeLocalFile(path string, data []byte, reporter progress.Reporter) error {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, progress.NewCountingReader(bytes.NewReader(data), reporter))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return err
}

// newFilesMkdirCmd creates the 'files mkdir' command.
func newFilesMkdirCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a repository directory",
		Long: `Create a directory in the repository.

The store has no empty-directory concept; a hidden placeholder file is
written inside the new directory to make it exist.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getStoreClient()
			if err != nil {
				return err
			}
			ctx := GetContext()

			dir, name := splitEntry(args[0])
			s, err := sessionAt(ctx, client, dir)
			if err != nil {
				return err
			}
			if err := s.CreateFolder(ctx, name); err != nil {
				return fmt.Errorf("creating folder: %s", s.Err())
			}
			fmt.Printf("✓ Created %s\n", strings.Trim(args[0], "/"))
			return nil
		},
	}
	return cmd
}

// newFilesRemoveCmd creates the 'files rm' command.
func newFilesRemoveCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rm <path>",
		Short: "Delete a repository file",
		Long: `Delete a file from the repository.

Deleting a path that is already gone counts as success.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getStoreClient()
			if err != nil {
				return err
			}
			ctx := GetContext()

			s, item, err := lookupEntry(ctx, client, args[0])
			if err != nil {
				// Already absent is the outcome rm wants.
				if errors.Is(err, errEntryNotFound) {
					fmt.Printf("✓ %s already absent\n", args[0])
					return nil
				}
				return err
			}

			if !force && !confirm(fmt.Sprintf("Delete %s?", args[0])) {
				fmt.Println("Aborted.")
				return nil
			}

			if err := s.Delete(ctx, item); err != nil {
				return fmt.Errorf("deleting: %s", s.Err())
			}
			fmt.Printf("✓ Deleted %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	return cmd
}

// newFilesMoveCmd creates the 'files mv' command.
func newFilesMoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mv <path> <sibling-dir>",
		Short: "Move a file into a sibling directory",
		Long: `Move a file into a directory of the same listing.

The move is two store writes (copy then delete) and is not atomic; an
interruption can leave the file in both places until cleaned up.

Example:
  luxconsole files mv report.pdf archive`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getStoreClient()
			if err != nil {
				return err
			}
			ctx := GetContext()

			s, item, err := lookupEntry(ctx, client, args[0])
			if err != nil {
				return err
			}
			target, ok := s.ItemByName(args[1])
			if !ok {
				return fmt.Errorf("target directory %q not found in the same listing", args[1])
			}

			if err := s.Move(ctx, item, target); err != nil {
				return fmt.Errorf("moving: %s", s.Err())
			}
			fmt.Printf("✓ Moved %s into %s/\n", item.Name, target.Name)
			return nil
		},
	}
	return cmd
}

// newFilesRenameCmd creates the 'files rename' command.
func newFilesRenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <path> <new-name>",
		Short: "Rename a repository file",
		Long: `Rename a file within its directory.

A new name without a dot keeps the original extension; a name containing a
dot is used exactly as entered.

Examples:
  # summary.txt becomes overview.txt
  luxconsole files rename docs/summary.txt overview

  # explicit extension wins
  luxconsole files rename docs/summary.txt final.md`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getStoreClient()
			if err != nil {
				return err
			}
			ctx := GetContext()

			s, item, err := lookupEntry(ctx, client, args[0])
			if err != nil {
				return err
			}

			finalName := paths.ApplyExtension(args[1], item.Name)
			if err := s.Rename(ctx, item, args[1]); err != nil {
				return fmt.Errorf("renaming: %s", s.Err())
			}
			fmt.Printf("✓ Renamed %s to %s\n", item.Name, finalName)
			return nil
		},
	}
	return cmd
}

// newFilesCatCmd creates the 'files cat' command.
func newFilesCatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat <path>",
		Short: "Print a repository file to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getStoreClient()
			if err != nil {
				return err
			}
			ctx := GetContext()

			s, item, err := lookupEntry(ctx, client, args[0])
			if err != nil {
				return err
			}
			data, err := s.Download(ctx, item)
			if err != nil {
				return fmt.Errorf("reading: %s", s.Err())
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}
	return cmd
}

// newFilesEditSaveCmd creates the 'files edit-save' command.
func newFilesEditSaveCmd() *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "edit-save <path>",
		Short: "Replace a text file's content",
		Long: `Replace the content of a text-editable repository file.

New content comes from --file or stdin. The file's current hash is fetched
immediately before the write, so the save lands on top of the latest stored
version; concurrent edits are last-write-wins.

Examples:
  # From a local file
  luxconsole files edit-save docs/notes.md --file notes.md

  # From stdin
  echo "updated" | luxconsole files edit-save docs/notes.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getStoreClient()
			if err != nil {
				return err
			}
			ctx := GetContext()

			var content []byte
			if fromFile != "" {
				content, err = os.ReadFile(fromFile)
			} else {
				content, err = io.ReadAll(os.Stdin)
			}
			if err != nil {
				return fmt.Errorf("reading new content: %w", err)
			}

			s, item, err := lookupEntry(ctx, client, args[0])
			if err != nil {
				return err
			}
			if !classify.IsEditableText(item.Name) {
				return fmt.Errorf("%s cannot be edited as text", item.Name)
			}

			if err := s.SaveEdit(ctx, item, content); err != nil {
				return fmt.Errorf("saving: %s", s.Err())
			}
			fmt.Printf("✓ Saved %s (%d bytes)\n", args[0], len(content))
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFile, "file", "", "Read new content from a local file instead of stdin")
	return cmd
}
