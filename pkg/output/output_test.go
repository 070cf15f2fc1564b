package output_test

import (
	"bytes"
	"testing"

	"github.com/openpeace/peace/pkg/item"
	"github.com/openpeace/peace/pkg/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterPresentFormatsMarkdownHeading(t *testing.T) {
	var buf bytes.Buffer
	w := output.NewWriter(&buf, 0)

	require.NoError(t, w.Present("Apply complete", []string{"- vec_copy: applied"}))
	assert.Contains(t, buf.String(), "## Apply complete\n")
	assert.Contains(t, buf.String(), "- vec_copy: applied\n")
}

func TestWriterDrainsProgressUpdatesNonBlocking(t *testing.T) {
	w := output.NewWriter(&bytes.Buffer{}, 4)
	ch := w.Progress()
	ch <- item.ProgressUpdate{Delta: 1}
	ch <- item.ProgressUpdate{Delta: 2}

	updates := w.Drain()
	require.Len(t, updates, 2)
	assert.Equal(t, uint64(1), updates[0].Delta)
	assert.Equal(t, uint64(2), updates[1].Delta)
	assert.Empty(t, w.Drain())
}
