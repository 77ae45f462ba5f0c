package backend

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/valerio/go-dmgcore/dmg/video"
)

// shadeRunes maps a shade index (0 lightest) to its snapshot character.
var shadeRunes = [4]byte{'.', '7', '8', '#'}

// FrameText renders a frame as one line per row and one character per
// pixel.
func FrameText(frame *video.FrameBuffer) []byte {
	w, h := frame.Width(), frame.Height()
	out := make([]byte, 0, (w+1)*h)
	for y := uint(0); y < h; y++ {
		for x := uint(0); x < w; x++ {
			out = append(out, shadeRunes[video.Shade(frame.GetPixel(x, y))])
		}
		out = append(out, '\n')
	}
	return out
}

// WriteSnapshot writes the debug lines followed by the frame text to a
// timestamped file in dir (the working directory if empty) and returns its
// path.
func WriteSnapshot(dir string, debugText []string, frame *video.FrameBuffer, now time.Time) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting working directory: %w", err)
		}
		dir = cwd
	}

	name := fmt.Sprintf("dmgcore_snapshot_%s_%03d.txt", now.Format("20060102_150405"), now.Nanosecond()/int(time.Millisecond))
	p := filepath.Join(dir, name)

	var sb strings.Builder
	for _, line := range debugText {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	sb.Write(FrameText(frame))

	if err := os.WriteFile(p, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}
	return p, nil
}
