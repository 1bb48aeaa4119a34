package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Leopold1975/crypto_dashboard/internal/pkg/config"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.log")

	lg, err := New(config.Logger{Level: "info", Output: []string{out}})
	require.NoError(t, err)

	lg.Debugf("hidden %d", 1)
	lg.Infof("visible %d", 2)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(b), "visible 2")
	require.NotContains(t, string(b), "hidden 1")
}

func TestNewBadLevel(t *testing.T) {
	_, err := New(config.Logger{Level: "loud"})
	require.Error(t, err)
}
