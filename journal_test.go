package glitch

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	j, err := OpenJournal(filepath.Join(t.TempDir(), "journal.db"))
	require.Nil(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournalRecordAndGet(t *testing.T) {
	j := openTestJournal(t)

	p := NewParams()
	p.SetString("mode", "dark")
	p.SetInt("loops", 3)
	p.SetFloat("threshold", 223)
	p.SetBool("sort_pixels", true)

	run := &Run{Tool: "pixelsort", Input: "in.png", Output: "done/in_3.png", Seed: 12, Params: p}
	require.Nil(t, j.Record(run))
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.Created.IsZero())

	got, err := j.Run(run.ID)
	require.Nil(t, err)
	require.NotNil(t, got)

	assert.Equal(t, run.Tool, got.Tool)
	assert.Equal(t, run.Input, got.Input)
	assert.Equal(t, run.Output, got.Output)
	assert.Equal(t, int64(12), got.Seed)
	assert.Equal(t, run.Created.UnixNano(), got.Created.UnixNano())
	assert.Equal(t, p.String(), got.Params.String())

	loops, ok := got.Params.Int("loops")
	assert.True(t, ok)
	assert.Equal(t, 3, loops)
}

func TestJournalRunMissing(t *testing.T) {
	j := openTestJournal(t)

	got, err := j.Run("nope")
	assert.Nil(t, err)
	assert.Nil(t, got)
}

func TestJournalRunsNewestFirst(t *testing.T) {
	j := openTestJournal(t)
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, tool := range []string{"lineweight", "pixelsort", "lineweight", "screenfvck"} {
		err := j.Record(&Run{
			ID:      tool + string(rune('a'+i)),
			Tool:    tool,
			Input:   "in.png",
			Output:  "out.png",
			Created: base.Add(time.Duration(i) * time.Minute),
		})
		require.Nil(t, err)
	}

	all, err := j.Runs("", 0)
	require.Nil(t, err)
	require.Equal(t, 4, len(all))
	assert.Equal(t, "screenfvckd", all[0].ID)
	assert.Equal(t, "lineweighta", all[3].ID)

	lw, err := j.Runs("lineweight", 0)
	require.Nil(t, err)
	require.Equal(t, 2, len(lw))
	assert.Equal(t, "lineweightc", lw[0].ID)

	limited, err := j.Runs("", 2)
	require.Nil(t, err)
	assert.Equal(t, 2, len(limited))
}

func TestJournalRecordUpdates(t *testing.T) {
	j := openTestJournal(t)

	run := &Run{ID: "x", Tool: "gradientgrid", Input: "a.png", Output: "first.png"}
	require.Nil(t, j.Record(run))

	run.Output = "second.png"
	require.Nil(t, j.Record(run))

	all, err := j.Runs("", 0)
	require.Nil(t, err)
	require.Equal(t, 1, len(all))
	assert.Equal(t, "second.png", all[0].Output)
}

func TestRemember(t *testing.T) {
	assert.Nil(t, Remember("", &Run{Tool: "lineweight"}))

	fpath := filepath.Join(t.TempDir(), "sub.db")
	require.Nil(t, Remember(fpath, &Run{Tool: "lineweight", Input: "a.png", Output: "b.png"}))
	assert.True(t, FileExists(fpath))

	j, err := OpenJournal(fpath)
	require.Nil(t, err)
	defer j.Close()

	runs, err := j.Runs("lineweight", 10)
	require.Nil(t, err)
	assert.Equal(t, 1, len(runs))
	assert.Equal(t, fpath, j.Filename())
}
