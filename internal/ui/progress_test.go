package ui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lowc/internal/buildpipeline"
)

func TestApplyEvent_TracksFiles(t *testing.T) {
	m := newProgressModel("build", []string{"a.last", "b.last"}, nil)

	m.applyEvent(buildpipeline.Event{File: "a.last", Stage: buildpipeline.StageLower, Status: buildpipeline.StatusWorking})
	assert.Equal(t, "lowering", m.items[0].status)
	assert.InDelta(t, 0.25, m.percent(), 1e-9)

	m.applyEvent(buildpipeline.Event{File: "a.last", Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusDone, Cached: true})
	m.applyEvent(buildpipeline.Event{File: "b.last", Stage: buildpipeline.StageFold, Status: buildpipeline.StatusError})
	assert.Equal(t, "cached", m.items[0].status)
	assert.Equal(t, "error", m.items[1].status)
	assert.Equal(t, 1, m.failed)
	assert.InDelta(t, 1.0, m.percent(), 1e-9)

	// Late events for a finished file are ignored.
	m.applyEvent(buildpipeline.Event{File: "a.last", Stage: buildpipeline.StageLower, Status: buildpipeline.StatusWorking})
	assert.Equal(t, "cached", m.items[0].status)

	m.applyEvent(buildpipeline.Event{Stage: buildpipeline.StageBuild, Status: buildpipeline.StatusWorking})
	assert.Equal(t, "building", m.stageLabel)

	m.applyEvent(buildpipeline.Event{File: "unknown", Status: buildpipeline.StatusDone})
}

func TestView_ListsFiles(t *testing.T) {
	m := newProgressModel("build demo", []string{"a.last", "src/файл.last"}, nil)
	m.done = true
	m.failed = 1
	view := m.View()
	require.NotEmpty(t, view)
	assert.Contains(t, view, "1 of 2 files")
	assert.Contains(t, view, "src/файл.last")
	assert.Equal(t, "", newProgressModel("x", nil, nil).View())
}

func TestListenForEvent_Closed(t *testing.T) {
	ch := make(chan buildpipeline.Event, 1)
	ch <- buildpipeline.Event{File: "a.last", Status: buildpipeline.StatusQueued}
	close(ch)
	m := newProgressModel("build", []string{"a.last"}, ch)

	msg := m.listenForEvent()()
	_, ok := msg.(eventMsg)
	assert.True(t, ok)
	_, ok = m.listenForEvent()().(doneMsg)
	assert.True(t, ok)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ab", truncate("abcdefghij", 2))
	for _, in := range []string{"abcdefghij", strings.Repeat("語", 10)} {
		out := truncate(in, 9)
		assert.True(t, strings.HasSuffix(out, "..."), out)
		assert.LessOrEqual(t, runewidth.StringWidth(out), 9)
	}
}
