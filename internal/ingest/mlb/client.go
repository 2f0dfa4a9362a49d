package mlb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const BaseURL = "https://statsapi.mlb.com/api/v1"

// sportID selects Major League Baseball in the Stats API.
const sportID = "1"

// Client handles MLB Stats API requests
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewClient creates a Stats API client. An empty baseURL uses BaseURL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logger,
	}
}

// FetchTeams returns the current MLB teams sorted by name.
func (c *Client) FetchTeams(ctx context.Context) ([]Team, error) {
	data, err := c.get(ctx, "/teams", url.Values{"sportId": {sportID}})
	if err != nil {
		return nil, fmt.Errorf("fetching teams: %w", err)
	}
	return ParseTeams(data), nil
}

// FetchSchedule returns the games scheduled on date (YYYY-MM-DD).
func (c *Client) FetchSchedule(ctx context.Context, date string) ([]ScheduledGame, error) {
	data, err := c.get(ctx, "/schedule", url.Values{"sportId": {sportID}, "date": {date}})
	if err != nil {
		return nil, fmt.Errorf("fetching schedule for %s: %w", date, err)
	}
	return ParseSchedule(data), nil
}

// FetchBoxScore returns the raw box score document of a game.
func (c *Client) FetchBoxScore(ctx context.Context, gamePk int) (map[string]interface{}, error) {
	data, err := c.get(ctx, "/game/"+strconv.Itoa(gamePk)+"/boxscore", nil)
	if err != nil {
		return nil, fmt.Errorf("fetching box score %d: %w", gamePk, err)
	}
	return data, nil
}

// FetchPerson returns biographical details of a player, or nil when the API
// knows no such person.
func (c *Client) FetchPerson(ctx context.Context, personID int) (*Person, error) {
	data, err := c.get(ctx, "/people/"+strconv.Itoa(personID), nil)
	if err != nil {
		return nil, fmt.Errorf("fetching person %d: %w", personID, err)
	}
	return ParsePerson(data), nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (map[string]interface{}, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("mlb api request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, body)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return result, nil
}
