package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.kern.sh/kern/internal/adapters/crashlog"
	"go.kern.sh/kern/internal/app"
	"go.kern.sh/kern/internal/core/domain"
)

type stubLoader struct{}

func (stubLoader) Load(string) (domain.Settings, error) {
	return domain.DefaultSettings(), nil
}

type stubLogger struct {
	mu     sync.Mutex
	errors []error
}

func (l *stubLogger) Info(string)    {}
func (l *stubLogger) Success(string) {}
func (l *stubLogger) Warn(string)    {}
func (l *stubLogger) Error(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, err)
}
func (l *stubLogger) SetOutput(io.Writer) {}
func (l *stubLogger) SetJSON(bool)        {}

func stubProvider(logger *stubLogger) ComponentProvider {
	return func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{
			App:    app.New(stubLoader{}, logger, crashlog.New("")),
			Logger: logger,
		}, func() {}, nil
	}
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	stderr := new(bytes.Buffer)

	exitCode := run(context.Background(), []string{"version"}, stderr, stubProvider(&stubLogger{}))

	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 when the command execution fails.
func TestRun_ExecutionError(t *testing.T) {
	logger := &stubLogger{}
	stderr := new(bytes.Buffer)

	// The entry file does not exist, so the run command fails.
	exitCode := run(context.Background(), []string{"run", "definitely-absent.py"}, stderr, stubProvider(logger))

	assert.Equal(t, 1, exitCode)
	logger.mu.Lock()
	defer logger.mu.Unlock()
	assert.NotEmpty(t, logger.errors)
}
