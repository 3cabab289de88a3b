package schoolholiday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/username/urlaubsplaner/internal/holiday"
	"go.uber.org/zap"
)

const (
	defaultBaseURL  = "https://openholidaysapi.org"
	defaultLanguage = "DE"
	defaultTimeout  = 10 * time.Second
)

// Client fetches school holiday periods from an OpenHolidays-style API
type Client struct {
	baseURL    string
	language   string
	httpClient *http.Client
	logger     *zap.Logger
}

// apiPeriod is one school holiday entry of the API response
type apiPeriod struct {
	ID        string `json:"id"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Name      []struct {
		Language string `json:"language"`
		Text     string `json:"text"`
	} `json:"name"`
}

// NewClient creates a new school holiday API client
func NewClient(baseURL, language string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if language == "" {
		language = defaultLanguage
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:  baseURL,
		language: language,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch returns the school holiday periods of one region for one year.
// A non-2xx status and an empty result set are both failures; the caller
// falls back to the static table in either case. The request is aborted
// when ctx is cancelled.
func (c *Client) Fetch(ctx context.Context, year int, region holiday.Region) ([]Period, error) {
	query := url.Values{}
	query.Set("countryIsoCode", "DE")
	query.Set("subdivisionCode", "DE-"+string(region))
	query.Set("languageIsoCode", c.language)
	query.Set("validFrom", fmt.Sprintf("%d-01-01", year))
	query.Set("validTo", fmt.Sprintf("%d-12-31", year))

	requestURL := c.baseURL + "/SchoolHolidays?" + query.Encode()

	c.logger.Debug("Fetching school holidays",
		zap.String("url", requestURL),
		zap.Int("year", year),
		zap.String("region", string(region)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch school holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var apiPeriods []apiPeriod
	if err := json.NewDecoder(resp.Body).Decode(&apiPeriods); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	// An empty list is indistinguishable from a region the service does
	// not know; treat it as a failure so the static table takes over.
	if len(apiPeriods) == 0 {
		return nil, fmt.Errorf("API returned no periods for %d/%s", year, region)
	}

	periods := make([]Period, 0, len(apiPeriods))
	for _, p := range apiPeriods {
		periods = append(periods, Period{
			Start: p.StartDate,
			End:   p.EndDate,
			Name:  localizedName(p, c.language),
		})
	}

	c.logger.Info("School holidays fetched",
		zap.Int("year", year),
		zap.String("region", string(region)),
		zap.Int("periods", len(periods)))

	return periods, nil
}

// localizedName picks the name in the requested language, falling back to
// the first one offered
func localizedName(p apiPeriod, language string) string {
	for _, n := range p.Name {
		if n.Language == language {
			return n.Text
		}
	}
	if len(p.Name) > 0 {
		return p.Name[0].Text
	}
	return p.ID
}
