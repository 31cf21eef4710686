package normalize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codebuildervaibhav/meetrec/internal/types"
)

func ts(v float64) *types.RelativeTimestamp {
	t := types.RelativeTimestamp(v)
	return &t
}

func TestCurrentStatus(t *testing.T) {
	t.Run("empty history defaults to ready", func(t *testing.T) {
		bot := &types.Bot{ID: "b1"}
		assert.Equal(t, types.StatusReady, CurrentStatus(bot))
	})

	t.Run("last entry wins regardless of earlier codes", func(t *testing.T) {
		bot := &types.Bot{
			StatusChanges: []types.BotStatus{
				{Code: types.StatusFatal},
				{Code: types.StatusJoiningCall},
				{Code: types.StatusInCallRecording},
			},
		}
		assert.Equal(t, types.StatusInCallRecording, CurrentStatus(bot))
	})
}

func TestMeetingURL(t *testing.T) {
	tests := []struct {
		name string
		ref  types.MeetingRef
		want string
	}{
		{"verbatim url string", types.MeetingRef{URL: "https://meet.google.com/abc-defg-hij"}, "https://meet.google.com/abc-defg-hij"},
		{"google meet pair", types.MeetingRef{MeetingID: "abc-defg-hij", Platform: "google_meet"}, "https://meet.google.com/abc-defg-hij"},
		{"zoom pair", types.MeetingRef{MeetingID: "123456789", Platform: "zoom"}, "https://zoom.us/j/123456789"},
		{"teams pair", types.MeetingRef{MeetingID: "19%3ameeting", Platform: "microsoft_teams"}, "https://teams.microsoft.com/l/meetup-join/19%3ameeting"},
		{"unknown platform falls back to meeting id", types.MeetingRef{MeetingID: "xyz-123", Platform: "webex"}, "xyz-123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MeetingURL(tt.ref)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got)
		})
	}
}

func TestStatusPresentation(t *testing.T) {
	assert.Equal(t, StatusMeta{Label: "Done", Severity: "success"}, StatusPresentation(types.StatusDone))
	assert.Equal(t, StatusMeta{Label: "Recording", Severity: "info"}, StatusPresentation(types.StatusInCallRecording))
	assert.Equal(t, StatusMeta{Label: "Scheduled", Severity: "muted"}, StatusPresentation(types.StatusReady))

	// The provider's vocabulary may grow; unknown codes must pass through.
	meta := StatusPresentation("call_rescheduled")
	assert.Equal(t, "call_rescheduled", meta.Label)
	assert.Equal(t, "muted", meta.Severity)
}

func recordingWith(id string, createdAt time.Time, video, transcript string) types.Recording {
	rec := types.Recording{ID: id, CreatedAt: createdAt}
	if video != "" {
		rec.MediaShortcuts.VideoMixed = &types.MediaShortcut{Data: types.MediaData{DownloadURL: video}}
	}
	if transcript != "" {
		rec.MediaShortcuts.Transcript = &types.MediaShortcut{Data: types.MediaData{DownloadURL: transcript}}
	}
	return rec
}

func TestLatestRecording(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("picks newest with requested media", func(t *testing.T) {
		recs := []types.Recording{
			recordingWith("old", base, "https://cdn/old.mp4", ""),
			recordingWith("new", base.Add(time.Hour), "https://cdn/new.mp4", ""),
		}
		got := LatestRecording(recs, MediaVideoMixed)
		require.NotNil(t, got)
		assert.Equal(t, "new", got.ID)
	})

	t.Run("newer recording without the media is skipped", func(t *testing.T) {
		recs := []types.Recording{
			recordingWith("with-transcript", base, "", "https://cdn/t.json"),
			recordingWith("video-only", base.Add(time.Hour), "https://cdn/v.mp4", ""),
		}
		got := LatestRecording(recs, MediaTranscript)
		require.NotNil(t, got)
		assert.Equal(t, "with-transcript", got.ID)
	})

	t.Run("ties keep input order", func(t *testing.T) {
		recs := []types.Recording{
			recordingWith("first", base, "https://cdn/a.mp4", ""),
			recordingWith("second", base, "https://cdn/b.mp4", ""),
		}
		got := LatestRecording(recs, MediaVideoMixed)
		require.NotNil(t, got)
		assert.Equal(t, "first", got.ID)
	})

	t.Run("no qualifying artifact is nil, not an error", func(t *testing.T) {
		recs := []types.Recording{
			recordingWith("video-only", base, "https://cdn/v.mp4", ""),
		}
		assert.Nil(t, LatestRecording(recs, MediaTranscript))
		assert.Nil(t, LatestRecording(nil, MediaVideoMixed))
	})

	t.Run("any of several kinds qualifies", func(t *testing.T) {
		recs := []types.Recording{
			recordingWith("audio", base, "", ""),
		}
		recs[0].MediaShortcuts.AudioMixed = &types.MediaShortcut{Data: types.MediaData{DownloadURL: "https://cdn/a.mp3"}}
		got := LatestRecording(recs, MediaVideoMixed, MediaAudioMixed)
		require.NotNil(t, got)
		assert.Equal(t, "audio", got.ID)
	})
}

func TestRecordingDuration(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(45 * time.Minute)

	rec := &types.Recording{StartedAt: &start, CompletedAt: &end}
	seconds, ok := RecordingDuration(rec)
	require.True(t, ok)
	assert.Equal(t, 2700, seconds)

	_, ok = RecordingDuration(&types.Recording{StartedAt: &start})
	assert.False(t, ok)
	_, ok = RecordingDuration(nil)
	assert.False(t, ok)
}

func TestTranscriptEntries_Offsets(t *testing.T) {
	t.Run("entry-level offsets are not overridden by words", func(t *testing.T) {
		raw := []types.RawTranscriptEntry{{
			StartTime: ts(12.5),
			EndTime:   ts(17.25),
			Words: []types.RawTranscriptWord{
				{Text: "hello", StartTime: ts(99), EndTime: ts(100)},
			},
		}}
		entries := TranscriptEntries(raw)
		require.Len(t, entries, 1)
		assert.Equal(t, 12.5, entries[0].StartTimestamp)
		assert.Equal(t, 17.25, entries[0].EndTimestamp)
	})

	t.Run("zero offsets are recomputed from first and last word", func(t *testing.T) {
		raw := []types.RawTranscriptEntry{{
			Words: []types.RawTranscriptWord{
				{Text: "good", StartTime: ts(3.0), EndTime: ts(3.4)},
				{Text: "morning", StartTime: ts(3.4), EndTime: ts(4.1)},
			},
		}}
		entries := TranscriptEntries(raw)
		require.Len(t, entries, 1)
		assert.Equal(t, 3.0, entries[0].StartTimestamp)
		assert.Equal(t, 4.1, entries[0].EndTimestamp)
	})

	t.Run("older field spelling is honored", func(t *testing.T) {
		raw := []types.RawTranscriptEntry{{
			StartTimestamp: ts(1.0),
			EndTimestamp:   ts(2.0),
			Words: []types.RawTranscriptWord{
				{Text: "hi", StartTimestamp: ts(1.0), EndTimestamp: ts(2.0)},
			},
		}}
		entries := TranscriptEntries(raw)
		require.Len(t, entries, 1)
		assert.Equal(t, 1.0, entries[0].StartTimestamp)
		assert.Equal(t, 2.0, entries[0].EndTimestamp)
		require.Len(t, entries[0].Words, 1)
		assert.Equal(t, 1.0, entries[0].Words[0].StartTimestamp)
	})
}

func TestTranscriptEntries_SyntheticWord(t *testing.T) {
	raw := []types.RawTranscriptEntry{{
		StartTime: ts(5),
		EndTime:   ts(9),
		Text:      "Selamat pagi semuanya",
	}}
	entries := TranscriptEntries(raw)
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Words, 1)
	assert.Equal(t, "Selamat pagi semuanya", entries[0].Words[0].Text)
	assert.Equal(t, 5.0, entries[0].Words[0].StartTimestamp)
	assert.Equal(t, 9.0, entries[0].Words[0].EndTimestamp)
}

func TestTranscriptEntries_NoWordsNoText(t *testing.T) {
	entries := TranscriptEntries([]types.RawTranscriptEntry{{StartTime: ts(1), EndTime: ts(2)}})
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Words)
	assert.Equal(t, "Unknown Speaker", entries[0].Speaker)
}

func TestTranscriptEntries_SpeakerPriority(t *testing.T) {
	tests := []struct {
		name        string
		speaker     string
		participant string
		want        string
	}{
		{"participant object name", "ignored", `{"id":7,"name":"Alice"}`, "Alice"},
		{"participant display name", "", `{"id":7,"display_name":"Bob K"}`, "Bob K"},
		{"participant id label", "", `{"id":7}`, "Speaker 7"},
		{"speaker string", "Carol", "", "Carol"},
		{"participant string", "", `"Dave"`, "Dave"},
		{"speaker beats participant string", "Carol", `"Dave"`, "Carol"},
		{"nothing resolves", "   ", "", "Unknown Speaker"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := types.RawTranscriptEntry{Speaker: tt.speaker}
			if tt.participant != "" {
				entry.Participant = json.RawMessage(tt.participant)
			}
			entries := TranscriptEntries([]types.RawTranscriptEntry{entry})
			require.Len(t, entries, 1)
			assert.Equal(t, tt.want, entries[0].Speaker)
		})
	}
}

func TestTranscriptEntries_Passthrough(t *testing.T) {
	lang := "id"
	isFinal := false
	conf := 0.91
	raw := []types.RawTranscriptEntry{{
		ID:        "utt-1",
		Speaker:   "Alice",
		IsFinal:   &isFinal,
		Language:  &lang,
		StartTime: ts(1),
		EndTime:   ts(2),
		Words: []types.RawTranscriptWord{
			{Text: "halo", StartTime: ts(1), EndTime: ts(2), Confidence: &conf},
		},
	}}
	entries := TranscriptEntries(raw)
	require.Len(t, entries, 1)
	assert.Equal(t, "utt-1", entries[0].OriginalTranscriptID)
	assert.False(t, entries[0].IsFinal)
	require.NotNil(t, entries[0].Language)
	assert.Equal(t, "id", *entries[0].Language)
	require.NotNil(t, entries[0].Words[0].Confidence)
	assert.Equal(t, 0.91, *entries[0].Words[0].Confidence)
}

func TestShortcutURL(t *testing.T) {
	rec := recordingWith("r1", time.Now(), "https://cdn/v.mp4", "")
	assert.Equal(t, "https://cdn/v.mp4", ShortcutURL(rec, MediaVideoMixed))
	assert.Empty(t, ShortcutURL(rec, MediaTranscript))
	assert.Empty(t, ShortcutURL(rec, MediaAudioMixed))
}
