package temporal

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"go.uber.org/zap"
)

var weekdayPattern = regexp.MustCompile(`(?i)\b(mon|tue|tues|wed|thu|thur|thurs|fri|sat|sun)(day|nesday|rsday|urday)?\b`)

// clockPattern recognises a time of day inside the matched expression:
// "3pm", "10:30", "this afternoon", "tonight", "in 2 hours".
var clockPattern = regexp.MustCompile(`(?i)\d{1,2}\s*(?:[:：]\s*[0-5]\d|[ap]\.?(?:m\.?)?(?:\W|$))|\b(?:morning|afternoon|evening|noon|tonight)\b|\b(?:in|within)\s+\S+(?:\s+\S+)?\s*(?:seconds?|min(?:ute)?s?|hours?)\b`)

// calendarPattern recognises an explicit calendar date: "May 3rd", "3/5".
var calendarPattern = regexp.MustCompile(`(?i)\b(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\b|\b\d{1,2}[/\\]\d{1,2}\b`)

var yearPattern = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

// bareHourPattern finds "at 3", "at 3:30" or "at 10 o'clock" without a meridiem.
var bareHourPattern = regexp.MustCompile(`(?i)\bat\s+(\d{1,2})(?:\s*[:.]\s*([0-5]\d))?(?:\s*o'?clock)?(\s*[ap]\.?m?\.?)?(?:\W|$)`)

var weekdayByPrefix = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// Extractor finds a future start instant in English text
type Extractor struct {
	parser *when.Parser
	logger *zap.Logger
}

// NewExtractor creates an extractor with the English and common rule sets
func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Extractor{parser: w, logger: logger}
}

// Extract returns the start instant expressed in text, relative to ref and
// in ref's location. ok is false when no temporal expression is found, when
// it carries no time of day, or when it names a date in a past year.
// Ambiguous occurrences resolve to the nearest future one.
func (e *Extractor) Extract(text string, ref time.Time) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}

	r, err := e.parser.Parse(text, ref)
	if err != nil {
		e.logger.Debug("temporal parse error", zap.String("text", text), zap.Error(err))
		return time.Time{}, false
	}
	if r == nil {
		return time.Time{}, false
	}

	loc := ref.Location()
	t := r.Time.In(loc)
	if hour, minute, ok := bareHour(r.Text); ok {
		t = time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, loc)
	} else if !clockPattern.MatchString(r.Text) {
		hour, minute, ok := bareHour(r.Source)
		if !ok {
			e.logger.Info("Temporal expression without time of day", zap.String("matched", r.Text))
			return time.Time{}, false
		}
		t = time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, loc)
	}
	t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, loc)

	if calendarPattern.MatchString(r.Text) {
		if !t.After(ref) && yearPattern.MatchString(r.Text) {
			e.logger.Info("Explicit date is in the past", zap.String("matched", r.Text))
			return time.Time{}, false
		}
		return forwardBias(t, ref, nil, rollYear), true
	}
	if weekday := namedWeekday(r.Text); weekday != nil {
		return forwardBias(t, ref, weekday, rollWeek), true
	}
	return forwardBias(t, ref, nil, rollDay), true
}

type roll int

const (
	rollDay roll = iota
	rollWeek
	rollYear
)

// forwardBias moves t by step until it is after ref. A weekday that names
// today resolves to today when its time of day is still ahead.
func forwardBias(t, ref time.Time, weekday *time.Weekday, step roll) time.Time {
	if weekday != nil && *weekday == ref.Weekday() && t.Weekday() == ref.Weekday() {
		for earlier := t.AddDate(0, 0, -7); earlier.After(ref); earlier = t.AddDate(0, 0, -7) {
			t = earlier
		}
	}

	for !t.After(ref) {
		switch step {
		case rollYear:
			t = t.AddDate(1, 0, 0)
		case rollWeek:
			t = t.AddDate(0, 0, 7)
		default:
			t = t.AddDate(0, 0, 1)
		}
	}
	return t
}

// bareHour reads "at H[:MM]" with no am/pm. During business hours 1-7 mean
// the afternoon, 8-12 are taken as written and 13-23 as a 24-hour clock.
func bareHour(text string) (int, int, bool) {
	m := bareHourPattern.FindStringSubmatch(text)
	if m == nil || m[3] != "" {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil || hour < 1 || hour > 23 {
		return 0, 0, false
	}
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if hour <= 7 {
		hour += 12
	}
	return hour, minute, true
}

func namedWeekday(text string) *time.Weekday {
	m := weekdayPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	d, ok := weekdayByPrefix[strings.ToLower(m[1])[:3]]
	if !ok {
		return nil
	}
	return &d
}
