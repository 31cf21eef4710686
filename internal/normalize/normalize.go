// Package normalize converts the recording provider's polymorphic payloads
// into the stable shapes the rest of the service consumes. Everything in
// here is a pure function; raw provider shapes never leave this boundary.
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/codebuildervaibhav/meetrec/internal/types"
)

// MediaKind identifies one downloadable media type on a recording.
type MediaKind string

const (
	MediaVideoMixed MediaKind = "video_mixed"
	MediaAudioMixed MediaKind = "audio_mixed"
	MediaTranscript MediaKind = "transcript"
)

// MeetingURL resolves either form of a bot's meeting reference into a
// displayable URL. Unrecognized platforms fall back to the bare meeting id
// so the display degrades instead of failing.
func MeetingURL(ref types.MeetingRef) string {
	if ref.URL != "" {
		return ref.URL
	}
	switch ref.Platform {
	case "google_meet":
		return fmt.Sprintf("https://meet.google.com/%s", ref.MeetingID)
	case "zoom":
		return fmt.Sprintf("https://zoom.us/j/%s", ref.MeetingID)
	case "microsoft_teams":
		return fmt.Sprintf("https://teams.microsoft.com/l/meetup-join/%s", ref.MeetingID)
	default:
		return ref.MeetingID
	}
}

// CurrentStatus derives a bot's current status from its status history: the
// last entry wins, an empty history means the bot is still ready. Status is
// never inferred from any other field.
func CurrentStatus(bot *types.Bot) string {
	if n := len(bot.StatusChanges); n > 0 {
		return bot.StatusChanges[n-1].Code
	}
	return types.StatusReady
}

// StatusMeta describes how a status code is presented.
type StatusMeta struct {
	Label    string `json:"label"`
	Severity string `json:"severity"`
}

var statusMeta = map[string]StatusMeta{
	types.StatusDone:               {Label: "Done", Severity: "success"},
	types.StatusAnalysisDone:       {Label: "Done", Severity: "success"},
	types.StatusInCallRecording:    {Label: "Recording", Severity: "info"},
	types.StatusInCallNotRecording: {Label: "In Call", Severity: "info"},
	types.StatusJoiningCall:        {Label: "Joining", Severity: "warning"},
	types.StatusInWaitingRoom:      {Label: "Waiting", Severity: "warning"},
	types.StatusFatal:              {Label: "Failed", Severity: "muted"},
	types.StatusReady:              {Label: "Scheduled", Severity: "muted"},
}

// StatusPresentation maps a status code to its label and severity class.
// Unknown codes pass through with the raw code as the label, since the
// provider's status vocabulary may grow.
func StatusPresentation(code string) StatusMeta {
	if meta, ok := statusMeta[code]; ok {
		return meta
	}
	return StatusMeta{Label: code, Severity: "muted"}
}

// ShortcutURL returns the download locator for one media kind of a
// recording, or "" when that media is not (yet) available.
func ShortcutURL(rec types.Recording, kind MediaKind) string {
	var s *types.MediaShortcut
	switch kind {
	case MediaVideoMixed:
		s = rec.MediaShortcuts.VideoMixed
	case MediaAudioMixed:
		s = rec.MediaShortcuts.AudioMixed
	case MediaTranscript:
		s = rec.MediaShortcuts.Transcript
	}
	if s == nil {
		return ""
	}
	return s.Data.DownloadURL
}

// LatestRecording selects the newest recording (by created_at) exposing at
// least one of the requested media kinds. Ties keep input order. Returns nil
// when no recording qualifies; callers must treat that as "nothing yet",
// not as an error.
func LatestRecording(recordings []types.Recording, kinds ...MediaKind) *types.Recording {
	sorted := make([]types.Recording, len(recordings))
	copy(sorted, recordings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	for i := range sorted {
		for _, kind := range kinds {
			if ShortcutURL(sorted[i], kind) != "" {
				return &sorted[i]
			}
		}
	}
	return nil
}

// RecordingDuration returns the capture length in whole seconds, when both
// endpoints are known.
func RecordingDuration(rec *types.Recording) (int, bool) {
	if rec == nil || rec.StartedAt == nil || rec.CompletedAt == nil {
		return 0, false
	}
	return int(math.Round(rec.CompletedAt.Sub(*rec.StartedAt).Seconds())), true
}

// TranscriptEntries normalizes raw transcript utterances into the stable
// shape: resolved speaker name, numeric offsets, and at least one word per
// entry whenever the provider supplied any text at all.
func TranscriptEntries(raw []types.RawTranscriptEntry) []types.TranscriptEntry {
	entries := make([]types.TranscriptEntry, 0, len(raw))
	for _, e := range raw {
		start := seconds(e.StartTime, e.StartTimestamp)
		end := seconds(e.EndTime, e.EndTimestamp)

		// A zero entry-level offset is treated as missing and recomputed
		// from the words. This conflates a genuine t=0 start with absent
		// data; accepted approximation.
		if start == 0 && len(e.Words) > 0 {
			w := e.Words[0]
			start = seconds(w.StartTime, w.StartTimestamp)
		}
		if end == 0 && len(e.Words) > 0 {
			w := e.Words[len(e.Words)-1]
			end = seconds(w.EndTime, w.EndTimestamp)
		}

		words := make([]types.TranscriptWord, 0, len(e.Words))
		for _, w := range e.Words {
			words = append(words, types.TranscriptWord{
				Text:           w.Text,
				StartTimestamp: seconds(w.StartTime, w.StartTimestamp),
				EndTimestamp:   seconds(w.EndTime, w.EndTimestamp),
				Confidence:     w.Confidence,
			})
		}
		if len(words) == 0 && e.Text != "" {
			words = append(words, types.TranscriptWord{
				Text:           e.Text,
				StartTimestamp: start,
				EndTimestamp:   end,
			})
		}

		isFinal := true
		if e.IsFinal != nil {
			isFinal = *e.IsFinal
		}

		entries = append(entries, types.TranscriptEntry{
			Speaker:              speakerName(e),
			Words:                words,
			IsFinal:              isFinal,
			StartTimestamp:       start,
			EndTimestamp:         end,
			Language:             e.Language,
			OriginalTranscriptID: e.ID,
		})
	}
	return entries
}

// seconds resolves the provider's two timestamp field spellings, preferring
// the newer one.
func seconds(primary, fallback *types.RelativeTimestamp) float64 {
	if primary != nil {
		return float64(*primary)
	}
	if fallback != nil {
		return float64(*fallback)
	}
	return 0
}

// speakerName resolves the display name through the priority chain:
// structured participant object, string speaker field, string participant
// field, then a literal placeholder.
func speakerName(e types.RawTranscriptEntry) string {
	var participantStr string
	if len(e.Participant) > 0 && string(e.Participant) != "null" {
		var p struct {
			ID          json.Number `json:"id"`
			Name        string      `json:"name"`
			DisplayName string      `json:"display_name"`
		}
		if err := json.Unmarshal(e.Participant, &p); err == nil {
			if p.Name != "" {
				return p.Name
			}
			if p.DisplayName != "" {
				return p.DisplayName
			}
			return strings.TrimSpace("Speaker " + p.ID.String())
		}
		// Not an object; may be a bare display name.
		_ = json.Unmarshal(e.Participant, &participantStr)
	}
	if strings.TrimSpace(e.Speaker) != "" {
		return e.Speaker
	}
	if participantStr != "" {
		return participantStr
	}
	return "Unknown Speaker"
}
