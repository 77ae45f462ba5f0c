// Package headless runs the console for a fixed number of frames without a
// display, logging a hash of every frame and optionally writing text
// snapshots.
package headless

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/valerio/go-dmgcore/dmg/backend"
	"github.com/valerio/go-dmgcore/dmg/video"
)

// Backend implements backend.Backend for automated testing and batch
// processing.
type Backend struct {
	config         backend.Config
	frameCount     int
	maxFrames      int
	snapshotConfig SnapshotConfig
	hashes         []uint64
}

var _ backend.Backend = (*Backend)(nil)

// SnapshotConfig holds configuration for frame snapshots
type SnapshotConfig struct {
	Enabled   bool
	Interval  int    // Save snapshot every N frames
	Directory string // Directory to save snapshots
	ROMName   string // ROM name for snapshot filenames
}

func New(maxFrames int, snapshotConfig SnapshotConfig) *Backend {
	return &Backend{
		maxFrames:      maxFrames,
		snapshotConfig: snapshotConfig,
		hashes:         make([]uint64, 0, maxFrames),
	}
}

func (h *Backend) Init(config backend.Config) error {
	h.config = config

	slog.Info("Running headless mode",
		"title", config.Title,
		"frames", h.maxFrames,
		"snapshot_interval", h.snapshotConfig.Interval,
		"snapshot_dir", h.snapshotConfig.Directory)

	return nil
}

// Update records the frame hash and handles snapshots. It asks the loop to
// quit once maxFrames frames have been seen.
func (h *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	h.frameCount++

	hash := frame.Hash()
	h.hashes = append(h.hashes, hash)
	slog.Debug("frame", "n", h.frameCount, "hash", fmt.Sprintf("%016x", hash))

	if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval == 0 {
		if err := h.saveSnapshot(frame); err != nil {
			return nil, err
		}
	}

	if h.frameCount%60 == 0 {
		slog.Info("Frame progress", "completed", h.frameCount, "total", h.maxFrames)
	}

	if h.frameCount < h.maxFrames {
		return nil, nil
	}

	// final snapshot, unless the interval just produced one
	if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval != 0 {
		if err := h.saveSnapshot(frame); err != nil {
			return nil, err
		}
	}

	slog.Info("Headless execution completed",
		"frames", h.frameCount,
		"last_hash", fmt.Sprintf("%016x", hash),
		"snapshot_dir", h.snapshotConfig.Directory)

	return []backend.InputEvent{backend.Quit()}, nil
}

func (h *Backend) Cleanup() error {
	return nil
}

// Hashes returns the hash of every frame seen, in order.
func (h *Backend) Hashes() []uint64 {
	return h.hashes
}

// CreateSnapshotConfig creates a snapshot configuration from CLI parameters
func CreateSnapshotConfig(interval int, directory, romPath string) (SnapshotConfig, error) {
	config := SnapshotConfig{
		Enabled:  interval > 0,
		Interval: interval,
	}

	if !config.Enabled {
		return config, nil
	}

	if directory == "" {
		tempDir, err := os.MkdirTemp("", "dmgcore-snapshots-*")
		if err != nil {
			return config, fmt.Errorf("creating snapshot directory: %w", err)
		}
		config.Directory = tempDir
	} else {
		if err := os.MkdirAll(directory, 0o755); err != nil {
			return config, fmt.Errorf("creating snapshot directory: %w", err)
		}
		config.Directory = directory
	}

	config.ROMName = filepath.Base(romPath)
	for ext := filepath.Ext(config.ROMName); ext != ""; ext = filepath.Ext(config.ROMName) {
		config.ROMName = strings.TrimSuffix(config.ROMName, ext)
	}

	return config, nil
}

func (h *Backend) snapshotPath() string {
	name := fmt.Sprintf("%s_frame_%d.txt", h.snapshotConfig.ROMName, h.frameCount)
	return filepath.Join(h.snapshotConfig.Directory, name)
}

func (h *Backend) saveSnapshot(frame *video.FrameBuffer) error {
	p := h.snapshotPath()
	if err := os.WriteFile(p, backend.FrameText(frame), 0o644); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	slog.Debug("saved snapshot", "frame", h.frameCount, "path", p)
	return nil
}
