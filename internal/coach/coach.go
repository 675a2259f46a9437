package coach

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"strings"
	"text/template"
	"time"
	"unicode/utf8"

	"wellness-tracker/internal/daystore"
	"wellness-tracker/internal/metrics"

	"go.uber.org/zap"
)

//go:embed advice.tmpl
var adviceTemplate string

var adviceTmpl = template.Must(template.New("advice").Parse(adviceTemplate))

const excerptRunes = 60

// ErrEmptyNote is returned when the coach is asked to look at a blank note.
var ErrEmptyNote = errors.New("write a note before asking the coach")

type adviceData struct {
	Day     int
	Excerpt string
	Words   int
}

// AnalyzeNote returns the coach's advice for a note. It is a fixed
// template: any non-empty note yields non-empty advice.
func AnalyzeNote(note string) string {
	return render(adviceData{
		Excerpt: excerpt(note),
		Words:   len(strings.Fields(note)),
	})
}

func render(data adviceData) string {
	var buf bytes.Buffer
	if err := adviceTmpl.Execute(&buf, data); err != nil {
		// The template is embedded and static; execution cannot fail on adviceData.
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}

func excerpt(note string) string {
	s := strings.Join(strings.Fields(note), " ")
	if utf8.RuneCountInString(s) <= excerptRunes {
		return s
	}
	return string([]rune(s)[:excerptRunes]) + "..."
}

// Recorder persists coach metrics.
type Recorder interface {
	RecordCoach(ctx context.Context, m metrics.CoachMetric) error
}

// Coach runs the note analysis for a plan day and stores the result.
type Coach struct {
	journal  *daystore.Journal
	recorder Recorder
	logger   *zap.Logger
}

// New creates a Coach. recorder may be nil.
func New(journal *daystore.Journal, recorder Recorder, logger *zap.Logger) *Coach {
	return &Coach{journal: journal, recorder: recorder, logger: logger}
}

// Advise saves note as the day's note, analyzes it and stores the advice as
// the day's coach text. A blank note returns ErrEmptyNote and changes nothing.
func (c *Coach) Advise(ctx context.Context, dayID int, note string) (daystore.DayRecord, error) {
	if strings.TrimSpace(note) == "" {
		return daystore.DayRecord{}, ErrEmptyNote
	}

	start := time.Now()
	advice := render(adviceData{
		Day:     dayID,
		Excerpt: excerpt(note),
		Words:   len(strings.Fields(note)),
	})
	latency := time.Since(start)

	rec, err := c.journal.Update(ctx, dayID, func(d *daystore.DayRecord) {
		d.Note = note
		d.CoachText = advice
	})
	if err != nil {
		return daystore.DayRecord{}, err
	}

	c.logger.Info("Coach advice stored", zap.Int("day", dayID), zap.Int("note_chars", utf8.RuneCountInString(note)))

	if c.recorder != nil {
		m := metrics.CoachMetric{
			DayID:       dayID,
			NoteChars:   utf8.RuneCountInString(note),
			AdviceChars: utf8.RuneCountInString(advice),
			Latency:     latency,
		}
		if err := c.recorder.RecordCoach(ctx, m); err != nil {
			c.logger.Warn("Failed to record coach metric", zap.Int("day", dayID), zap.Error(err))
		}
	}

	return rec, nil
}

// AdviseStored runs Advise on the note already stored for the day.
func (c *Coach) AdviseStored(ctx context.Context, dayID int) (daystore.DayRecord, error) {
	rec, err := c.journal.Day(ctx, dayID)
	if err != nil {
		return daystore.DayRecord{}, err
	}
	return c.Advise(ctx, dayID, rec.Note)
}
