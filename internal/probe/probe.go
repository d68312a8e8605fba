// Package probe extracts technical metadata from media files with
// ffprobe. A probe never fails hard: when ffprobe is missing or the file
// is unreadable, the returned metadata carries an Error field instead.
package probe

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

type Metadata struct {
	Duration    float64 `json:"duration,omitempty"`
	FPS         float64 `json:"fps,omitempty"`
	FrameCount  int64   `json:"frame_count,omitempty"`
	Width       int     `json:"width,omitempty"`
	Height      int     `json:"height,omitempty"`
	AspectRatio string  `json:"aspect_ratio,omitempty"`
	FileSize    int64   `json:"file_size,omitempty"`
	Error       string  `json:"error,omitempty"`
}

type Prober struct{}

func New() *Prober {
	return &Prober{}
}

// ffprobe stream JSON shape, decoded selectively
type ffprobeOutput struct {
	Streams []struct {
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
		NBFrames   string `json:"nb_frames"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func (p *Prober) Probe(path string) Metadata {
	var meta Metadata
	if info, err := os.Stat(path); err == nil {
		meta.FileSize = info.Size()
	}

	out, err := exec.Command("ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate,nb_frames",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	).Output()
	if err != nil {
		meta.Error = fmt.Sprintf("ffprobe failed: %v", err)
		return meta
	}

	var probed ffprobeOutput
	if err := json.Unmarshal(out, &probed); err != nil {
		meta.Error = fmt.Sprintf("failed to parse ffprobe output: %v", err)
		return meta
	}

	meta.Duration, _ = strconv.ParseFloat(probed.Format.Duration, 64)

	if len(probed.Streams) == 0 {
		meta.Error = "no video stream found"
		return meta
	}

	stream := probed.Streams[0]
	meta.Width = stream.Width
	meta.Height = stream.Height
	meta.FPS = parseFrameRate(stream.RFrameRate)
	meta.FrameCount, _ = strconv.ParseInt(stream.NBFrames, 10, 64)
	if meta.FrameCount == 0 && meta.FPS > 0 {
		meta.FrameCount = int64(meta.Duration * meta.FPS)
	}
	if meta.Width > 0 && meta.Height > 0 {
		meta.AspectRatio = fmt.Sprintf("%d:%d", meta.Width, meta.Height)
	}

	return meta
}

// parseFrameRate converts ffprobe's rational frame rate ("30000/1001")
// to a float.
func parseFrameRate(rate string) float64 {
	parts := strings.SplitN(rate, "/", 2)
	if len(parts) != 2 {
		f, _ := strconv.ParseFloat(rate, 64)
		return f
	}
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}
