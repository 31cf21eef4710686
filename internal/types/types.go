package types

import (
	"encoding/json"
	"time"
)

// Bot status codes reported by the recording provider
const (
	StatusReady              = "ready"
	StatusJoiningCall        = "joining_call"
	StatusInWaitingRoom      = "in_waiting_room"
	StatusInCallNotRecording = "in_call_not_recording"
	StatusInCallRecording    = "in_call_recording"
	StatusCallEnded          = "call_ended"
	StatusDone               = "done"
	StatusFatal              = "fatal"
	StatusAnalysisDone       = "analysis_done"
)

// Bot represents one dispatched recording bot, as owned by the provider.
type Bot struct {
	ID            string      `json:"id"`
	MeetingURL    MeetingRef  `json:"meeting_url"`
	BotName       string      `json:"bot_name"`
	StatusChanges []BotStatus `json:"status_changes"`
	JoinAt        *time.Time  `json:"join_at"`
	Recordings    []Recording `json:"recordings"`
	CreatedAt     *time.Time  `json:"created_at"`
	StartedAt     *time.Time  `json:"started_at"`
	EndedAt       *time.Time  `json:"ended_at"`
}

// BotStatus is one entry in a bot's status history. Insertion order is
// chronological; the last entry is the current status.
type BotStatus struct {
	Code      string     `json:"code"`
	Message   string     `json:"message,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// MeetingRef is the provider's polymorphic meeting_url field. The provider
// echoes the original URL string on creation but returns a structured
// {meeting_id, platform} pair on list/get responses. Exactly one form is set.
type MeetingRef struct {
	URL       string `json:"-"`
	MeetingID string `json:"meeting_id,omitempty"`
	Platform  string `json:"platform,omitempty"`
}

func (m *MeetingRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = MeetingRef{URL: s}
		return nil
	}
	var pair struct {
		MeetingID string `json:"meeting_id"`
		Platform  string `json:"platform"`
	}
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	*m = MeetingRef{MeetingID: pair.MeetingID, Platform: pair.Platform}
	return nil
}

func (m MeetingRef) MarshalJSON() ([]byte, error) {
	if m.URL != "" {
		return json.Marshal(m.URL)
	}
	type pair struct {
		MeetingID string `json:"meeting_id"`
		Platform  string `json:"platform"`
	}
	return json.Marshal(pair{MeetingID: m.MeetingID, Platform: m.Platform})
}

// Recording represents one media capture session tied to a bot. created_at
// is the only reliable sort key; a bot may accumulate several recordings
// after reconnects.
type Recording struct {
	ID             string         `json:"id"`
	StartedAt      *time.Time     `json:"started_at"`
	CompletedAt    *time.Time     `json:"completed_at"`
	ExpiresAt      *time.Time     `json:"expires_at"`
	CreatedAt      time.Time      `json:"created_at"`
	MediaShortcuts MediaShortcuts `json:"media_shortcuts"`
}

// MediaShortcuts holds the per-kind download locators of a recording. Any
// entry may be absent when that media type was not produced or has expired;
// absence means "not yet available", not an error.
type MediaShortcuts struct {
	VideoMixed *MediaShortcut `json:"video_mixed,omitempty"`
	AudioMixed *MediaShortcut `json:"audio_mixed,omitempty"`
	Transcript *MediaShortcut `json:"transcript,omitempty"`
}

// MediaShortcut wraps one downloadable media reference.
type MediaShortcut struct {
	Data MediaData `json:"data"`
}

// MediaData holds the (possibly expired, possibly null) download locator.
type MediaData struct {
	DownloadURL string `json:"download_url"`
}

// RelativeTimestamp is the provider's polymorphic timestamp: older payloads
// carry a bare number of relative seconds, newer ones a structured
// {relative, absolute} object. Decoded once at the JSON boundary so
// downstream code only sees seconds.
type RelativeTimestamp float64

func (t *RelativeTimestamp) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*t = RelativeTimestamp(n)
		return nil
	}
	var obj struct {
		Relative float64 `json:"relative"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*t = RelativeTimestamp(obj.Relative)
	return nil
}

// RawTranscriptEntry is one utterance as downloaded from the provider,
// tolerant of both historical field spellings. Participant may be a
// structured object, a bare display name, or absent.
type RawTranscriptEntry struct {
	ID             string              `json:"id"`
	Speaker        string              `json:"speaker"`
	Participant    json.RawMessage     `json:"participant"`
	Words          []RawTranscriptWord `json:"words"`
	IsFinal        *bool               `json:"is_final"`
	StartTime      *RelativeTimestamp  `json:"start_time"`
	StartTimestamp *RelativeTimestamp  `json:"start_timestamp"`
	EndTime        *RelativeTimestamp  `json:"end_time"`
	EndTimestamp   *RelativeTimestamp  `json:"end_timestamp"`
	Language       *string             `json:"language"`
	Text           string              `json:"text"`
}

// RawTranscriptWord is one word as downloaded from the provider.
type RawTranscriptWord struct {
	Text           string             `json:"text"`
	StartTime      *RelativeTimestamp `json:"start_time"`
	StartTimestamp *RelativeTimestamp `json:"start_timestamp"`
	EndTime        *RelativeTimestamp `json:"end_time"`
	EndTimestamp   *RelativeTimestamp `json:"end_timestamp"`
	Confidence     *float64           `json:"confidence"`
}

// TranscriptWord is a normalized word with resolved offsets in seconds.
type TranscriptWord struct {
	Text           string   `json:"text"`
	StartTimestamp float64  `json:"start_timestamp"`
	EndTimestamp   float64  `json:"end_timestamp"`
	Confidence     *float64 `json:"confidence,omitempty"`
}

// TranscriptEntry is a normalized utterance ready for the frontend.
type TranscriptEntry struct {
	Speaker              string           `json:"speaker"`
	Words                []TranscriptWord `json:"words"`
	IsFinal              bool             `json:"is_final"`
	StartTimestamp       float64          `json:"start_timestamp"`
	EndTimestamp         float64          `json:"end_timestamp"`
	Language             *string          `json:"language"`
	OriginalTranscriptID string           `json:"original_transcript_id"`
}

// Meeting is a calendar event with a joinable Meet link.
type Meeting struct {
	ID          string            `json:"id"`
	Summary     string            `json:"summary"`
	Description string            `json:"description,omitempty"`
	Start       string            `json:"start"`
	End         string            `json:"end"`
	HangoutLink string            `json:"hangoutLink,omitempty"`
	Attendees   []MeetingAttendee `json:"attendees,omitempty"`
	Status      string            `json:"status"`
}

// MeetingAttendee is one invited participant of a calendar event.
type MeetingAttendee struct {
	Email          string `json:"email"`
	ResponseStatus string `json:"responseStatus,omitempty"`
}
