package headless_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-dmgcore/dmg"
	"github.com/valerio/go-dmgcore/dmg/backend"
	"github.com/valerio/go-dmgcore/dmg/backend/headless"
	"github.com/valerio/go-dmgcore/dmg/timing"
	"github.com/valerio/go-dmgcore/dmg/video"
)

func TestHeadlessBackend(t *testing.T) {
	h := headless.New(3, headless.SnapshotConfig{})
	require.NoError(t, h.Init(backend.Config{Title: "Test"}))

	frame := video.NewFrameBuffer()
	for i := 0; i < 3; i++ {
		events, err := h.Update(frame)
		require.NoError(t, err)

		if i < 2 {
			assert.Empty(t, events)
		} else {
			require.Len(t, events, 1)
			assert.Equal(t, backend.ActionQuit, events[0].Action)
		}
	}

	assert.Len(t, h.Hashes(), 3)
	assert.Equal(t, frame.Hash(), h.Hashes()[2])
	assert.NoError(t, h.Cleanup())
}

func TestHeadlessBackend_snapshots(t *testing.T) {
	dir := t.TempDir()
	config, err := headless.CreateSnapshotConfig(2, dir, "/roms/game.gb.gz")
	require.NoError(t, err)
	assert.Equal(t, "game", config.ROMName)

	h := headless.New(5, config)
	require.NoError(t, h.Init(backend.Config{}))

	frame := video.NewFrameBuffer()
	frame.SetPixel(0, 0, video.BlackColor)
	frame.SetPixel(1, 0, video.DarkGreyColor)
	frame.SetPixel(2, 0, video.LightGreyColor)

	for range 5 {
		_, err := h.Update(frame)
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"game_frame_2.txt", "game_frame_4.txt", "game_frame_5.txt"}, names)

	data, err := os.ReadFile(filepath.Join(dir, "game_frame_5.txt"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, video.FramebufferHeight)
	assert.Len(t, lines[0], video.FramebufferWidth)
	assert.True(t, strings.HasPrefix(lines[0], "#87...."))
	assert.Equal(t, strings.Repeat(".", video.FramebufferWidth), lines[1])
}

func TestCreateSnapshotConfig(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		config, err := headless.CreateSnapshotConfig(0, "", "game.gb")
		require.NoError(t, err)
		assert.False(t, config.Enabled)
		assert.Empty(t, config.Directory)
	})

	t.Run("creates the directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "a", "b")
		config, err := headless.CreateSnapshotConfig(10, dir, "tetris.gb")
		require.NoError(t, err)
		assert.DirExists(t, dir)
		assert.Equal(t, "tetris", config.ROMName)
	})
}

func TestHeadlessRun(t *testing.T) {
	rom := make([]byte, 0x8000)
	copy(rom[0x100:], []byte{0x18, 0xFE}) // JR -2

	emu := dmg.New()
	require.NoError(t, emu.LoadROM(rom))

	h := headless.New(4, headless.SnapshotConfig{})
	require.NoError(t, h.Init(backend.Config{Title: emu.Title()}))
	require.NoError(t, backend.Run(context.Background(), emu, h, timing.NoOp{}))

	assert.Equal(t, uint64(4), emu.FrameCount())
	require.Len(t, h.Hashes(), 4)
	white := video.NewFrameBuffer().Hash()
	for _, hash := range h.Hashes() {
		assert.Equal(t, white, hash)
	}
}
