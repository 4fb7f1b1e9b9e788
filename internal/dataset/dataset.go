// Package dataset builds classifier training corpora from raw exports:
// email bodies out of an Enron-style CSV, meeting transcripts out of an AMI
// CSV, synthetic chat lines, and combined multichannel samples.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/brd-service/internal/pipeline"
)

// Corpus separators. Files written by this package delimit records with
// these markers; pipeline.Clean strips them back out of individual records.
const (
	EmailSeparator   = "---EMAIL_SEPARATOR---"
	MeetingSeparator = "---MEETING_SEPARATOR---"
)

// chatRoles are the personas stamped onto synthetic chat lines.
var chatRoles = []string{"PM", "Developer", "QA", "Manager", "Client"}

// minEmailBodyChars drops stub bodies (auto-replies, empty forwards).
const minEmailBodyChars = 50

// ExtractEmails reads an Enron-style CSV export and returns cleaned email
// bodies from the named column (the part after the RFC-822 headers). Bodies
// shorter than 50 characters are dropped. limit <= 0 means no limit.
func ExtractEmails(r io.Reader, column string, limit int) ([]string, error) {
	if column == "" {
		column = "message"
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read csv header")
	}
	col := -1
	for i, name := range header {
		if name == column {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, eris.Errorf("dataset: column %q not found in csv header", column)
	}

	var emails []string
	for limit <= 0 || len(emails) < limit {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "dataset: read csv record")
		}
		if col >= len(rec) {
			continue
		}

		body := emailBody(rec[col])
		if len(body) <= minEmailBodyChars {
			continue
		}
		emails = append(emails, pipeline.Clean(body))
	}

	return emails, nil
}

// emailBody returns the text after the first blank line, i.e. the message
// body without its RFC-822 headers. Messages without a header/body split
// are returned whole.
func emailBody(message string) string {
	if _, body, ok := strings.Cut(message, "\n\n"); ok {
		return body
	}
	return message
}

// ExtractMeetings reads an AMI-style CSV and returns transcripts from the
// first column. limit <= 0 means no limit.
func ExtractMeetings(r io.Reader, limit int) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	// Skip header.
	if _, err := cr.Read(); err != nil {
		return nil, eris.Wrap(err, "dataset: read csv header")
	}

	var transcripts []string
	for limit <= 0 || len(transcripts) < limit {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "dataset: read csv record")
		}
		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		transcripts = append(transcripts, pipeline.Clean(rec[0]))
	}

	return transcripts, nil
}

// GenerateChats turns corpus records into one-line synthetic chat messages
// with a role tag, e.g. "[Slack][PM]: ...". Role assignment is seeded so a
// corpus regenerates identically.
func GenerateChats(records []string, seed uint64) []string {
	rng := rand.New(rand.NewPCG(seed, 0))

	chats := make([]string, 0, len(records))
	for _, rec := range records {
		rec = strings.TrimSpace(rec)
		if rec == "" {
			continue
		}
		line := strings.ReplaceAll(rec, "\n", " ")
		line = pipeline.Truncate(line, 200)
		role := chatRoles[rng.IntN(len(chatRoles))]
		chats = append(chats, fmt.Sprintf("[Slack][%s]: %s", role, line))
	}

	return chats
}

// BuildMultichannel zips email, meeting, and chat corpora into n combined
// samples with channel banners. A channel that runs out of records
// contributes an empty section.
func BuildMultichannel(emails, meetings, chats []string, n int) []string {
	samples := make([]string, 0, n)
	for i := 0; i < n; i++ {
		var email, meeting, chat string
		if i < len(emails) {
			email = strings.TrimSpace(emails[i])
		}
		if i < len(meetings) {
			meeting = strings.TrimSpace(meetings[i])
		}
		if i < len(chats) {
			chat = strings.TrimSpace(chats[i])
		}

		sample := fmt.Sprintf(`--- EMAIL CHANNEL ---
%s

--- MEETING CHANNEL ---
%s

--- CHAT CHANNEL ---
%s
`, email, meeting, chat)
		samples = append(samples, sample)
	}

	return samples
}

// WriteCorpus writes records to w delimited by separator, the framing
// ReadCorpus expects.
func WriteCorpus(w io.Writer, records []string, separator string) error {
	for _, rec := range records {
		if _, err := fmt.Fprintf(w, "%s\n\n%s\n\n", rec, separator); err != nil {
			return eris.Wrap(err, "dataset: write corpus")
		}
	}
	return nil
}

// ReadCorpus splits a separator-delimited corpus back into trimmed records,
// dropping empties.
func ReadCorpus(r io.Reader, separator string) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read corpus")
	}

	var records []string
	for _, part := range strings.Split(string(data), separator) {
		part = strings.TrimSpace(part)
		if part != "" {
			records = append(records, part)
		}
	}
	return records, nil
}
