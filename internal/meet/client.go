// Package meet wraps the Google Meet v2 API for read-only browsing of a
// user's conference records and their recording/transcript artifacts. Like
// the calendar client it is built per request from the caller's token.
package meet

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	gmeet "google.golang.org/api/meet/v2"
	"google.golang.org/api/option"

	"github.com/codebuildervaibhav/meetrec/internal/types"
)

// Client reads Meet conference records for one authenticated user.
type Client struct {
	svc *gmeet.Service
}

// NewClient builds a Meet client bound to the caller's OAuth access token.
func NewClient(ctx context.Context, accessToken string) (*Client, error) {
	if accessToken == "" {
		return nil, types.NewAPIError(types.ErrUnauthorized, "meet auth", "missing Google access token")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	svc, err := gmeet.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, types.NewAPIError(types.ErrUnknownUpstream, "meet auth", "create meet service: %v", err)
	}
	return &Client{svc: svc}, nil
}

// ConferenceRecord is one past or ongoing conference.
type ConferenceRecord struct {
	Name       string `json:"name"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime,omitempty"`
	ExpireTime string `json:"expireTime,omitempty"`
	Space      string `json:"space,omitempty"`
}

// Recording is one Meet-native recording artifact.
type Recording struct {
	Name      string            `json:"name"`
	State     string            `json:"state"`
	StartTime string            `json:"startTime,omitempty"`
	EndTime   string            `json:"endTime,omitempty"`
	Drive     *DriveDestination `json:"driveDestination,omitempty"`
}

// DriveDestination locates an exported recording in Drive.
type DriveDestination struct {
	File      string `json:"file"`
	ExportURI string `json:"exportUri"`
}

// Transcript is one Meet-native transcript artifact.
type Transcript struct {
	Name      string           `json:"name"`
	State     string           `json:"state"`
	StartTime string           `json:"startTime,omitempty"`
	EndTime   string           `json:"endTime,omitempty"`
	Docs      *DocsDestination `json:"docsDestination,omitempty"`
}

// DocsDestination locates an exported transcript in Docs.
type DocsDestination struct {
	Document  string `json:"document"`
	ExportURI string `json:"exportUri"`
}

// TranscriptEntry is one utterance of a Meet-native transcript.
type TranscriptEntry struct {
	Name        string `json:"name"`
	Participant string `json:"participant,omitempty"`
	Text        string `json:"text"`
	StartTime   string `json:"startTime,omitempty"`
	EndTime     string `json:"endTime,omitempty"`
	Language    string `json:"language,omitempty"`
}

// ConferenceRecords lists the user's most recent conference records.
func (c *Client) ConferenceRecords(ctx context.Context) ([]ConferenceRecord, error) {
	res, err := c.svc.ConferenceRecords.List().PageSize(25).Context(ctx).Do()
	if err != nil {
		return nil, classify(err, "list conference records")
	}
	records := make([]ConferenceRecord, 0, len(res.ConferenceRecords))
	for _, r := range res.ConferenceRecords {
		records = append(records, ConferenceRecord{
			Name:       r.Name,
			StartTime:  r.StartTime,
			EndTime:    r.EndTime,
			ExpireTime: r.ExpireTime,
			Space:      r.Space,
		})
	}
	return records, nil
}

// Recordings lists the recordings of one conference record.
func (c *Client) Recordings(ctx context.Context, record string) ([]Recording, error) {
	res, err := c.svc.ConferenceRecords.Recordings.List(recordName(record)).Context(ctx).Do()
	if err != nil {
		return nil, classify(err, "list recordings")
	}
	recordings := make([]Recording, 0, len(res.Recordings))
	for _, r := range res.Recordings {
		rec := Recording{
			Name:      r.Name,
			State:     stateOrDefault(r.State),
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
		}
		if r.DriveDestination != nil {
			rec.Drive = &DriveDestination{
				File:      r.DriveDestination.File,
				ExportURI: r.DriveDestination.ExportUri,
			}
		}
		recordings = append(recordings, rec)
	}
	return recordings, nil
}

// Transcripts lists the transcripts of one conference record.
func (c *Client) Transcripts(ctx context.Context, record string) ([]Transcript, error) {
	res, err := c.svc.ConferenceRecords.Transcripts.List(recordName(record)).Context(ctx).Do()
	if err != nil {
		return nil, classify(err, "list transcripts")
	}
	transcripts := make([]Transcript, 0, len(res.Transcripts))
	for _, t := range res.Transcripts {
		tr := Transcript{
			Name:      t.Name,
			State:     stateOrDefault(t.State),
			StartTime: t.StartTime,
			EndTime:   t.EndTime,
		}
		if t.DocsDestination != nil {
			tr.Docs = &DocsDestination{
				Document:  t.DocsDestination.Document,
				ExportURI: t.DocsDestination.ExportUri,
			}
		}
		transcripts = append(transcripts, tr)
	}
	return transcripts, nil
}

// TranscriptEntries lists one page of utterances of a transcript.
func (c *Client) TranscriptEntries(ctx context.Context, record, transcript string) ([]TranscriptEntry, error) {
	parent := recordName(record) + "/transcripts/" + transcript
	res, err := c.svc.ConferenceRecords.Transcripts.Entries.List(parent).PageSize(200).Context(ctx).Do()
	if err != nil {
		return nil, classify(err, "list transcript entries")
	}
	entries := make([]TranscriptEntry, 0, len(res.TranscriptEntries))
	for _, e := range res.TranscriptEntries {
		entries = append(entries, TranscriptEntry{
			Name:        e.Name,
			Participant: e.Participant,
			Text:        e.Text,
			StartTime:   e.StartTime,
			EndTime:     e.EndTime,
			Language:    e.LanguageCode,
		})
	}
	return entries, nil
}

// recordName rebuilds the resource name from a bare record id. Full names
// pass through untouched so both forms work.
func recordName(record string) string {
	if len(record) > len("conferenceRecords/") && record[:len("conferenceRecords/")] == "conferenceRecords/" {
		return record
	}
	return "conferenceRecords/" + record
}

func stateOrDefault(state string) string {
	if state == "" {
		return "STATE_UNSPECIFIED"
	}
	return state
}

// classify maps Google API failures onto the shared error taxonomy.
func classify(err error, op string) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		kind := types.ErrUnknownUpstream
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			kind = types.ErrUnauthorized
		case http.StatusNotFound:
			kind = types.ErrNotFound
		}
		// Google sometimes returns errors with an empty Message field.
		msg := gerr.Message
		if msg == "" {
			msg = gerr.Error()
		}
		return &types.APIError{
			Kind:    kind,
			Status:  gerr.Code,
			Op:      op,
			Message: msg,
			Body:    gerr.Body,
		}
	}
	return types.NewAPIError(types.ErrNetwork, op, "%v", err)
}
