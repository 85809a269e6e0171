package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/imspect/internal/npy"
)

// HandoffDirEnv names the environment variable through which a Sender tells
// the viewer which directory holds the handed-off files.
const HandoffDirEnv = "IMSPECT_HANDOFF_DIR"

const (
	// DefaultExecutable is the viewer looked up on PATH.
	DefaultExecutable = "imspect"

	// DefaultHandoffTimeout bounds the wait for the viewer to read its files.
	DefaultHandoffTimeout = 5 * time.Second

	// DefaultPollInterval is how often the handoff directory is checked.
	DefaultPollInterval = 25 * time.Millisecond
)

// Sender hands arrays to a freshly started viewer process.
//
// The zero value is not usable; create one with NewSender.
type Sender struct {
	// Executable is the viewer program, resolved through PATH when it has no
	// path separator.
	Executable string

	// Args are placed before the image paths on the viewer command line.
	Args []string

	// HandoffTimeout bounds how long Send waits for the viewer to acknowledge
	// the files. Zero means DefaultHandoffTimeout.
	HandoffTimeout time.Duration

	// PollInterval is the acknowledgement polling period. Zero means
	// DefaultPollInterval.
	PollInterval time.Duration

	// TempDir is the parent of the per-call handoff directory. Empty means
	// os.TempDir().
	TempDir string

	// Env holds extra environment entries ("KEY=value") for the viewer.
	Env []string

	// Stdin, Stdout and Stderr are handed to the viewer. Nil connects the
	// null device. The viewer outlives Send, so these should be *os.File
	// values that the viewer can keep after the caller exits.
	Stdin          io.Reader
	Stdout, Stderr io.Writer

	logger logrus.FieldLogger
}

// NewSender creates a Sender for the given viewer executable. An empty
// executable selects DefaultExecutable; a nil logger discards output.
func NewSender(executable string, logger logrus.FieldLogger) *Sender {
	if executable == "" {
		executable = DefaultExecutable
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Sender{
		Executable:     executable,
		HandoffTimeout: DefaultHandoffTimeout,
		PollInterval:   DefaultPollInterval,
		logger:         logger,
	}
}

// Send writes arrays to a new temporary directory, starts the viewer with the
// file paths as arguments and waits until the viewer has taken them.
//
// Arrays must be uint8 with shape (height, width) or (height, width, 1|3).
// All arrays are validated before anything is written; the first invalid one
// fails the call with ErrInvalidInput. Storage failures return
// ErrResourceUnavailable and a viewer that cannot be started returns
// ErrLaunchFailed.
//
// Once started, the viewer runs independently. Send blocks until the viewer
// removes every handed-off file, the viewer exits, ctx is done, or
// HandoffTimeout elapses, whichever comes first. A timeout is logged and is
// not an error. The temporary directory is removed before Send returns.
func (s *Sender) Send(ctx context.Context, arrays ...npy.Array) error {
	normalized := make([]npy.Array, len(arrays))
	for i, a := range arrays {
		n, err := normalize(a)
		if err != nil {
			return fmt.Errorf("image %d: %w", i, err)
		}
		normalized[i] = n
	}

	dir, err := os.MkdirTemp(s.TempDir, "imspect-")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrResourceUnavailable, err)
	}
	defer os.RemoveAll(dir)
	if dir, err = filepath.Abs(dir); err != nil {
		return fmt.Errorf("%w: %v", ErrResourceUnavailable, err)
	}

	paths := make([]string, len(normalized))
	for i, a := range normalized {
		paths[i] = filepath.Join(dir, fmt.Sprintf("imspect_img_%d%s", i, npy.Extension))
		if err := npy.WriteFile(paths[i], a); err != nil {
			return fmt.Errorf("%w: %v", ErrResourceUnavailable, err)
		}
	}

	cmd := exec.Command(s.Executable, append(append([]string{}, s.Args...), paths...)...)
	cmd.Env = append(append(os.Environ(), s.Env...), HandoffDirEnv+"="+dir)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = s.Stdin, s.Stdout, s.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrLaunchFailed, s.Executable, err)
	}

	log := s.logger.WithFields(logrus.Fields{
		"pid":    cmd.Process.Pid,
		"images": len(paths),
		"dir":    dir,
	})
	log.Debug("Viewer started")

	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()

	return s.awaitHandoff(ctx, log, paths, exited)
}

// awaitHandoff polls until every path is gone.
func (s *Sender) awaitHandoff(ctx context.Context, log logrus.FieldLogger, paths []string, exited <-chan error) error {
	timeout := s.HandoffTimeout
	if timeout <= 0 {
		timeout = DefaultHandoffTimeout
	}
	interval := s.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		if remaining(paths) == 0 {
			log.Debug("Viewer acknowledged images")
			return nil
		}

		select {
		case <-tick.C:
		case err := <-exited:
			if remaining(paths) == 0 {
				return nil
			}
			if err == nil {
				err = errors.New("exit status 0")
			}
			return fmt.Errorf("%w: %v", ErrViewerExited, err)
		case <-deadline.C:
			log.WithField("pending", remaining(paths)).Warn("Viewer did not acknowledge images in time")
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func remaining(paths []string) int {
	n := 0
	for _, p := range paths {
		if _, err := os.Lstat(p); !errors.Is(err, os.ErrNotExist) {
			n++
		}
	}
	return n
}
