// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

package analytics

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRecorder(t *testing.T) *Recorder {
	t.Helper()
	r, err := Open(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRecordAndCount(t *testing.T) {
	r := openTestRecorder(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, r.Record(EventPageView, "Home"))
	}
	require.NoError(t, r.Record(EventCartAdd, "Mystic Legends"))

	n, err := r.Count(EventPageView)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	byKind, err := r.CountByKind()
	require.NoError(t, err)
	assert.Equal(t, 3, byKind[EventPageView])
	assert.Equal(t, 1, byKind[EventCartAdd])
}

func TestTopLabels(t *testing.T) {
	r := openTestRecorder(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, r.Record(EventCartAdd, "Starbound Odyssey"))
	}
	require.NoError(t, r.Record(EventCartAdd, "Pixel Dungeon Quest"))
	// Unlabeled events are excluded from label rankings.
	require.NoError(t, r.Record(EventCartAdd, ""))

	top, err := r.TopLabels(EventCartAdd, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, LabelCount{Label: "Starbound Odyssey", Count: 3}, top[0])
	assert.Equal(t, LabelCount{Label: "Pixel Dungeon Quest", Count: 1}, top[1])
}

func TestOpenTemporaryPath(t *testing.T) {
	r, err := Open("")
	require.NoError(t, err)
	defer r.Close()

	assert.NotEmpty(t, r.Path())
	assert.NoError(t, r.Record(EventCheckout, "$42.00"))
}

func TestCountEmptyKind(t *testing.T) {
	r := openTestRecorder(t)
	n, err := r.Count(EventChatQuery)
	require.NoError(t, err)
	assert.Zero(t, n)
}
