package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Luismorlan/trackhubs/enrichment"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptOnFailure(t *testing.T) {
	out := &bytes.Buffer{}
	handler := promptOnFailure(strings.NewReader("y\nno\n"), out)

	assert.True(t, handler(1, errors.New("boom")))
	assert.False(t, handler(2, errors.New("boom")))
	// Input exhausted.
	assert.False(t, handler(3, errors.New("boom")))
	assert.Contains(t, out.String(), "TrackDB with ID '1' failed: boom")
	assert.Contains(t, out.String(), "continue anyway? [y/N]")
}

func TestPrintEnrichReport(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, printEnrichReport(out, &enrichment.Report{Processed: 3}))
	assert.Equal(t, "All TrackDB are updated successfully!\n", out.String())

	out.Reset()
	err := printEnrichReport(out, &enrichment.Report{
		Processed: 3,
		Failed:    []enrichment.Failure{{TrackdbID: 7, Err: errors.New("gone")}},
	})
	assert.EqualError(t, err, "1 of 3 trackdbs failed")
	assert.Equal(t, "TrackDB with ID '7' failed: gone\n", out.String())
}
