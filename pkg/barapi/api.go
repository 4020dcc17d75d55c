// Package barapi is a client for the Beyond All Reason user statistics HTTP API.
package barapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/guregu/null.v4"
)

// GamemodeLargeTeam is the upstream discriminator for the "Large Team" ranked
// queue, the only gamemode this client extracts ratings for.
const GamemodeLargeTeam = 3

// API holds the necessary state to query the BAR user-search endpoint.
// It is safe for concurrent use.
type API struct {
	http    http.Client
	base    string
	limiter *rate.Limiter
}

// New creates a rate-limited access point to the API rooted at the given
// user-search base URL (eg. "https://gex.honu.pw/api/user/search").
func New(base string) *API {
	return &API{
		base: strings.TrimSuffix(base, "/"),
		// The API is a shared community service, don't hammer it.
		limiter: rate.NewLimiter(1, 1),
		http: http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// UserStats is the subset of an upstream search result the bot consumes.
// Skill and SkillUncertainty are invalid when the user exists but has no
// ranked Large Team history yet.
type UserStats struct {
	UserID           int64
	Username         string
	Skill            null.Float
	SkillUncertainty null.Float
}

func (api *API) getURL(username string) string {
	q := url.Values{
		"includeSkill":        {"true"},
		"searchPreviousNames": {"true"},
	}

	return api.base + "/" + url.PathEscape(username) + "?" + q.Encode()
}

// SearchUser looks a player up by its in-game username.
// A nil UserStats with a nil error means the upstream API knows no such user.
func (api *API) SearchUser(ctx context.Context, username string) (*UserStats, error) {
	if err := api.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, api.getURL(username), nil)
	if err != nil {
		return nil, err
	}

	res, err := api.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("unable to perform HTTP request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("got status code %d", res.StatusCode)
	}

	var candidates []struct {
		UserID   int64  `json:"userID"`
		Username string `json:"username"`
		Skill    []struct {
			Gamemode         int     `json:"gamemode"`
			Skill            float64 `json:"skill"`
			SkillUncertainty float64 `json:"skillUncertainty"`
		} `json:"skill"`
	}

	dec := json.NewDecoder(res.Body)
	if err := dec.Decode(&candidates); err != nil {
		return nil, fmt.Errorf("unable to parse response: %s", err)
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	// The API returns near-matches (eg. previous names), the first entry is
	// the canonical one.
	candidate := candidates[0]
	ret := &UserStats{
		UserID:   candidate.UserID,
		Username: candidate.Username,
	}

	for _, v := range candidate.Skill {
		if v.Gamemode == GamemodeLargeTeam {
			ret.Skill = null.FloatFrom(v.Skill)
			ret.SkillUncertainty = null.FloatFrom(v.SkillUncertainty)
			break
		}
	}

	return ret, nil
}

// HasRating returns true if the user has played ranked Large Team games.
func (u *UserStats) HasRating() bool {
	return u != nil && u.Skill.Valid
}
