package player_test

import (
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/amonks/musik/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shell(t *testing.T, script string) *player.Player {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("no sh on PATH")
	}
	// sh -c script sh URL: the URL lands in $1.
	return player.New(sh, []string{"-c", script, "sh"}, nil)
}

func TestPlayToEnd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "played")
	p := shell(t, `echo "$1" > `+out)

	ended := make(chan struct{}, 1)
	p.OnEnded(func() { ended <- struct{}{} })

	require.NoError(t, p.Load("https://audio.example/preview.m4a"))
	require.NoError(t, p.Play())

	select {
	case <-ended:
	case <-time.After(5 * time.Second):
		t.Fatal("OnEnded was not called")
	}
	assert.FileExists(t, out)
}

func TestPauseDoesNotEnd(t *testing.T) {
	p := shell(t, "sleep 30")

	ended := make(chan struct{}, 1)
	p.OnEnded(func() { ended <- struct{}{} })

	require.NoError(t, p.Load("u"))
	require.NoError(t, p.Play())
	require.NoError(t, p.Pause())

	select {
	case <-ended:
		t.Fatal("OnEnded called after Pause")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestLoadStopsCurrent(t *testing.T) {
	p := shell(t, "sleep 30")

	ended := make(chan struct{}, 1)
	p.OnEnded(func() { ended <- struct{}{} })

	require.NoError(t, p.Load("u1"))
	require.NoError(t, p.Play())
	require.NoError(t, p.Load("u2"))

	select {
	case <-ended:
		t.Fatal("OnEnded called after Load")
	case <-time.After(200 * time.Millisecond):
	}
	require.NoError(t, p.Close())
}

func TestPlayWithoutLoad(t *testing.T) {
	p := player.New("true", nil, nil)
	assert.ErrorIs(t, p.Play(), player.ErrNothingLoaded)
	assert.NoError(t, p.Pause())
}

func TestMissingBinary(t *testing.T) {
	p := player.New(filepath.Join(t.TempDir(), "no-such-player"), nil, nil)
	require.NoError(t, p.Load("u"))
	assert.Error(t, p.Play())
}
