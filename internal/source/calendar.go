package source

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ewanmcn/binrota/internal/common"
	"github.com/ewanmcn/binrota/internal/service"
)

// isoDatePattern matches "2026-01-05" at the start of a line.
var isoDatePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\b`)

// dayMonthPattern matches "5 January" style mentions anywhere in a line.
// The council's long-range calendar lists collection weeks this way, one
// month per section, dates separated by commas.
var dayMonthPattern = regexp.MustCompile(`\b(\d{1,2})\s+(January|February|March|April|May|June|July|August|September|October|November|December)\b`)

// CalendarParser turns the decoded text of the council's long-range
// calendar into dated entries. The text must already be extracted from
// whatever container the council publishes; this parser never sees the
// original document format.
//
// Two line shapes are understood:
//
//	2026-01-05: black
//	5 January, 2 February: grey, burgundy
//
// Labels after a colon apply to every date on the line. Lines without a
// colon contribute dates with no labels.
type CalendarParser struct {
	// Year resolves day-month mentions that carry no year of their own.
	Year int
}

// Parse extracts all dated entries from the document text, in document
// order. It returns an empty slice, not an error, when no dates are found;
// distinguishing an empty document from a missing one is the caller's job.
func (p CalendarParser) Parse(text string) ([]service.DatedLabels, error) {
	if p.Year <= 0 {
		return nil, fmt.Errorf("%w: calendar year is required", common.ErrInvalidConfig)
	}

	var entries []service.DatedLabels
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entries = append(entries, p.parseLine(line)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrFetchFailed, err)
	}

	return entries, nil
}

func (p CalendarParser) parseLine(line string) []service.DatedLabels {
	datePart, labels := splitLabels(line)

	entries := p.parseDates(datePart, labels)
	if entries != nil {
		return entries
	}

	// No dates before the colon. Lines like "Collection weeks: 5 January
	// and 19 January" carry their dates on the right side instead, with no
	// per-date labels.
	return p.parseDates(line, nil)
}

func (p CalendarParser) parseDates(text string, labels []string) []service.DatedLabels {
	if m := isoDatePattern.FindStringSubmatch(text); m != nil {
		date, err := time.Parse("2006-01-02", m[1])
		if err == nil {
			return []service.DatedLabels{{Date: date, Labels: labels}}
		}
	}

	var entries []service.DatedLabels
	for _, m := range dayMonthPattern.FindAllStringSubmatch(text, -1) {
		day, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		month, ok := monthByName(m[2])
		if !ok {
			continue
		}
		date := time.Date(p.Year, month, day, 0, 0, 0, 0, time.UTC)
		// Reject overflow like "31 February" rolling into March.
		if date.Day() != day {
			continue
		}
		entries = append(entries, service.DatedLabels{Date: date, Labels: labels})
	}
	return entries
}

// splitLabels separates a line into its date part and any trailing labels.
// An ISO line's first colon-free segment is the date; labels follow the
// first colon that is not part of the date itself.
func splitLabels(line string) (string, []string) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return line, nil
	}

	var labels []string
	for _, part := range strings.Split(line[idx+1:], ",") {
		if label := strings.TrimSpace(part); label != "" {
			labels = append(labels, label)
		}
	}
	return line[:idx], labels
}

func monthByName(name string) (time.Month, bool) {
	for m := time.January; m <= time.December; m++ {
		if m.String() == name {
			return m, true
		}
	}
	return 0, false
}

// FileCalendar is a HistoricalSource backed by a decoded calendar text file
// on disk.
type FileCalendar struct {
	Path   string
	Parser CalendarParser
}

// NewFileCalendar creates a file-backed historical source for the given
// calendar year.
func NewFileCalendar(path string, year int) *FileCalendar {
	return &FileCalendar{
		Path:   path,
		Parser: CalendarParser{Year: year},
	}
}

// FetchCalendar implements service.HistoricalSource.
func (f *FileCalendar) FetchCalendar(_ context.Context) ([]service.DatedLabels, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrFetchFailed, err)
	}
	return f.Parser.Parse(string(data))
}
