package nbastats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

type Team struct {
	ID           int    `json:"id"`
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
	FullName     string `json:"full_name"`
	Name         string `json:"name"`
}

type Player struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
	Team      Team   `json:"team"`
}

type Meta struct {
	NextCursor int `json:"next_cursor"`
	PerPage    int `json:"per_page"`
}

type PlayersResponse struct {
	Data []Player `json:"data"`
	Meta Meta     `json:"meta"`
}

// GetPlayers fetches one page of players. A zero cursor starts from the
// beginning; the next cursor comes back in the response meta.
func (c *NBAStatsClient) GetPlayers(ctx context.Context, cursor int) (*PlayersResponse, error) {
	endpoint := fmt.Sprintf("%s?per_page=%d", PlayersEndpoint, DefaultPerPage)
	if cursor > 0 {
		endpoint = fmt.Sprintf("%s&cursor=%d", endpoint, cursor)
	}

	body, err := c.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}

	var response PlayersResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	return &response, nil
}

// SearchPlayers looks up players by name fragment.
func (c *NBAStatsClient) SearchPlayers(ctx context.Context, query string) ([]Player, error) {
	endpoint := fmt.Sprintf("%s?per_page=%d&search=%s", PlayersEndpoint, DefaultPerPage, url.QueryEscape(query))

	body, err := c.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to search players: %w", err)
	}

	var response PlayersResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	return response.Data, nil
}

// GetAllPlayers walks the cursor until the API stops returning one, capped
// at maxPages to stay inside the free-tier rate limit.
func (c *NBAStatsClient) GetAllPlayers(ctx context.Context, maxPages int) ([]Player, error) {
	var all []Player
	cursor := 0

	for page := 0; page < maxPages; page++ {
		resp, err := c.GetPlayers(ctx, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, resp.Data...)

		if resp.Meta.NextCursor == 0 || len(resp.Data) == 0 {
			break
		}
		cursor = resp.Meta.NextCursor
	}

	return all, nil
}
