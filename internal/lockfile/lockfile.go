package lockfile

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/theseus/internal/constants"
)

var findProcessFunc = ps.FindProcess

// ErrNoServer is returned when no live theseus server is recorded.
var ErrNoServer = errors.New("theseus server is not running")

// Entry is the content of the server lockfile.
type Entry struct {
	Addr string
	PID  int
}

// URL returns the base URL clients use to reach the server. Wildcard
// listen addresses are mapped to the loopback interface.
func (e Entry) URL() string {
	host, port, err := net.SplitHostPort(e.Addr)
	if err != nil {
		return "http://" + e.Addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// Path returns the lockfile location inside dir.
func Path(dir string) string {
	return filepath.Join(dir, constants.ServerLockfileName)
}

// Write records that the server with the given pid listens on addr.
func Write(dir, addr string, pid int) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create lockfile directory: %w", err)
	}
	content := fmt.Sprintf("%s|%d", addr, pid)
	if err := os.WriteFile(Path(dir), []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write lockfile: %w", err)
	}
	return nil
}

// Remove deletes the lockfile. A missing lockfile is not an error.
func Remove(dir string) error {
	if err := os.Remove(Path(dir)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

// Read parses the lockfile in dir and checks that the recorded pid belongs
// to a running theseus process.
func Read(dir string) (Entry, error) {
	content, err := os.ReadFile(Path(dir))
	if err != nil {
		return Entry{}, ErrNoServer
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return Entry{}, errors.New("lockfile is malformed")
	}

	addr := strings.TrimSpace(parts[0])
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid address in lockfile: %w", err)
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return Entry{}, errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return Entry{}, fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil || pid <= 0 {
		return Entry{}, errors.New("invalid process ID in lockfile")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return Entry{}, ErrNoServer
	}
	if !strings.HasPrefix(process.Executable(), constants.AppName) {
		return Entry{}, fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.AppName, process.Executable())
	}

	return Entry{Addr: addr, PID: pid}, nil
}

// Discover returns the base URL of a running server, falling back to the
// default address when the lockfile is missing, stale or malformed.
func Discover(dir string) string {
	entry, err := Read(dir)
	if err != nil {
		return Entry{Addr: constants.DefaultAddr}.URL()
	}
	return entry.URL()
}
