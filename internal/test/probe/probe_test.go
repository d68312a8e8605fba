package probe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"video-forge-backend/internal/probe"
)

func TestProbe_MissingFile(t *testing.T) {
	prober := probe.New()

	metadata := prober.Probe("/nonexistent/sample.mp4")

	// Probe never fails hard; a bad input degrades to an error note.
	assert.NotEmpty(t, metadata.Error)
	assert.Zero(t, metadata.Duration)
	assert.Zero(t, metadata.Width)
}
