package credential

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/doeshing/margit/internal/domain"
	"github.com/doeshing/margit/internal/pkg/filesystem"
	"github.com/doeshing/margit/internal/ports"
)

// PromptText asks for the key on first run.
const PromptText = "Please enter your OpenAI API key: "

// fileRecord is the on-disk shape of ~/.nlGitConfig.json.
type fileRecord struct {
	APIKey string `json:"apiKey"`
}

// FileStore keeps the API key in a single JSON file and prompts for it when
// the file does not exist yet.
type FileStore struct {
	path string
	in   io.Reader
	out  io.Writer
	log  ports.Logger

	once   sync.Once
	cached domain.Credential
	err    error
}

// DefaultPath is ~/.nlGitConfig.json.
func DefaultPath() string {
	return filepath.Join(filesystem.UserHomeDir(), domain.CredentialFileName)
}

// NewFileStore builds a store. Nil in/out default to stdin/stdout.
func NewFileStore(path string, in io.Reader, out io.Writer, log ports.Logger) *FileStore {
	if path == "" {
		path = DefaultPath()
	}
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &FileStore{path: path, in: in, out: out, log: log}
}

// Path returns the credential file location.
func (s *FileStore) Path() string {
	return s.path
}

// Resolve implements ports.CredentialStore. The file is consulted at most once
// per store.
func (s *FileStore) Resolve(ctx context.Context) (domain.Credential, error) {
	s.once.Do(func() {
		s.cached, s.err = s.resolve(ctx)
	})
	return s.cached, s.err
}

func (s *FileStore) resolve(ctx context.Context) (domain.Credential, error) {
	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		s.debug("config file exists, reading API key")
		return parseRecord(data)
	case errors.Is(err, fs.ErrNotExist):
		s.debug("config file does not exist, prompting for API key")
		return s.promptAndSave(ctx)
	default:
		return "", fmt.Errorf("read credential file %s: %w", s.path, err)
	}
}

// Check reports whether a key can be read without prompting. A missing file
// yields an error wrapping fs.ErrNotExist.
func (s *FileStore) Check() error {
	info, err := os.Stat(s.path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	if _, err := parseRecord(data); err != nil {
		return err
	}
	if info.Mode().Perm()&0o077 != 0 {
		return fmt.Errorf("%w: %s is %o", domain.ErrInsecureCredentialFile, s.path, info.Mode().Perm())
	}
	return nil
}

func parseRecord(data []byte) (domain.Credential, error) {
	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", fmt.Errorf("parse credential file: %w", err)
	}
	if strings.TrimSpace(rec.APIKey) == "" {
		return "", domain.ErrMissingCredential
	}
	return domain.Credential(rec.APIKey), nil
}

func (s *FileStore) promptAndSave(ctx context.Context) (domain.Credential, error) {
	fmt.Fprint(s.out, PromptText)
	key, err := s.readKey(ctx)
	if err != nil {
		return "", fmt.Errorf("read API key: %w", err)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", domain.ErrNoCredentialProvided
	}

	raw, err := json.Marshal(fileRecord{APIKey: key})
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(s.path, raw, domain.SecureFilePermissions); err != nil {
		return "", fmt.Errorf("save credential file %s: %w", s.path, err)
	}
	s.debug("API key saved to config file")
	return domain.Credential(key), nil
}

type readResult struct {
	key string
	err error
}

// readKey reads without echo on a terminal and a single line otherwise. The
// read runs aside so that a cancelled ctx returns at once; the terminal state
// is restored before giving up on a hidden read.
func (s *FileStore) readKey(ctx context.Context) (string, error) {
	done := make(chan readResult, 1)
	restore := func() {}

	f, isFile := s.in.(*os.File)
	hidden := isFile && term.IsTerminal(int(f.Fd()))
	if hidden {
		fd := int(f.Fd())
		if state, err := term.GetState(fd); err == nil {
			restore = func() { _ = term.Restore(fd, state) }
		}
		go func() {
			secret, err := term.ReadPassword(fd)
			done <- readResult{key: string(secret), err: err}
		}()
	} else {
		go func() {
			line, err := bufio.NewReader(s.in).ReadString('\n')
			if errors.Is(err, io.EOF) {
				err = nil
			}
			done <- readResult{key: line, err: err}
		}()
	}

	select {
	case res := <-done:
		if hidden {
			fmt.Fprintln(s.out)
		}
		return res.key, res.err
	case <-ctx.Done():
		restore()
		fmt.Fprintln(s.out)
		return "", ctx.Err()
	}
}

func (s *FileStore) debug(msg string) {
	if s.log != nil {
		s.log.Debug(msg, map[string]interface{}{"path": s.path})
	}
}

var (
	_ ports.CredentialStore   = (*FileStore)(nil)
	_ ports.CredentialChecker = (*FileStore)(nil)
)
