// Package source implements the external collaborators: the council street
// page and the long-range calendar document. Everything past this package
// is plain text; no HTML or binary formats leak inward.
package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ewanmcn/binrota/internal/common"
	"github.com/ewanmcn/binrota/internal/service"
)

const (
	defaultBaseURL = "https://www.southlanarkshire.gov.uk"
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"
	// weekRangeLayout parses "Monday 19 January 2026".
	weekRangeLayout = "Monday 2 January 2006"

	defaultTimeout = 30 * time.Second
)

// CouncilClient fetches and decodes the council's street directory page.
// One FetchSnapshot call performs exactly one request; retrying belongs to
// the caller.
type CouncilClient struct {
	httpClient *http.Client
	baseURL    string
	recordID   string
	streetName string
}

// CouncilOption customizes a CouncilClient.
type CouncilOption func(*CouncilClient)

// WithBaseURL overrides the council base URL (used in tests).
func WithBaseURL(url string) CouncilOption {
	return func(c *CouncilClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) CouncilOption {
	return func(c *CouncilClient) {
		c.httpClient = client
	}
}

// NewCouncilClient creates a client for one street. The record ID is the
// 6-digit number from the street's directory URL; shorter IDs are
// zero-padded the way the council's own links are.
func NewCouncilClient(recordID, streetName string, opts ...CouncilOption) (*CouncilClient, error) {
	if strings.TrimSpace(recordID) == "" || strings.TrimSpace(streetName) == "" {
		return nil, fmt.Errorf("%w: record ID and street name are required", common.ErrMissingConfig)
	}

	c := &CouncilClient{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    defaultBaseURL,
		recordID:   padRecordID(recordID),
		streetName: streetName,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func padRecordID(id string) string {
	id = strings.TrimSpace(id)
	for len(id) < 6 {
		id = "0" + id
	}
	return id
}

// FetchSnapshot implements service.SnapshotSource.
func (c *CouncilClient) FetchSnapshot(ctx context.Context) (*service.Snapshot, error) {
	url := fmt.Sprintf("%s/directory_record/%s/%s", c.baseURL, c.recordID, c.streetName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d from %s", common.ErrFetchFailed, resp.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrFetchFailed, err)
	}

	return snapshotFromDocument(doc)
}

// snapshotFromDocument extracts the week range, this week's bin labels, and
// the schedule table from the parsed page.
func snapshotFromDocument(doc *goquery.Document) (*service.Snapshot, error) {
	binDiv := doc.Find("div.bin-dir-snip").First()
	if binDiv.Length() == 0 {
		return nil, fmt.Errorf("%w: no bin collection section on page", common.ErrMissingScheduleData)
	}

	weekText := strings.TrimSpace(binDiv.Find("p").First().Text())
	weekStart, err := parseWeekRange(weekText)
	if err != nil {
		return nil, err
	}

	var labels []string
	binDiv.Find("li h4 a").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			labels = append(labels, text)
		}
	})

	var schedule []service.ScheduleRow
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		wasteType := strings.TrimSpace(row.Find("th").First().Text())
		detail := strings.TrimSpace(row.Find("td").First().Text())
		if wasteType == "" || detail == "" {
			return
		}
		schedule = append(schedule, service.ScheduleRow{WasteType: wasteType, Detail: detail})
	})

	return &service.Snapshot{
		FetchedAt: time.Now(),
		WeekStart: weekStart,
		BinLabels: labels,
		Schedule:  schedule,
	}, nil
}

// parseWeekRange reads the start date from text like
// "Monday 19 January 2026 to Friday 23 January 2026".
func parseWeekRange(text string) (time.Time, error) {
	parts := strings.Split(text, " to ")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("%w: unexpected week range %q", common.ErrMissingScheduleData, text)
	}

	start, err := time.Parse(weekRangeLayout, strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: cannot parse week start %q: %v", common.ErrMissingScheduleData, parts[0], err)
	}
	return start, nil
}
