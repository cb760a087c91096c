// Package distance looks up travel time between two addresses using the
// Google Distance Matrix API.
package distance

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Modes accepted by Estimate, as the user types them.
var Modes = []string{"DRIVING", "WALKING", "BICYCLING", "TRANSIT"}

// ValidMode reports whether mode is one of Modes, ignoring case.
func ValidMode(mode string) bool {
	return slices.Contains(Modes, strings.ToUpper(strings.TrimSpace(mode)))
}

// Estimate is the travel time between two places and a navigation link.
type Estimate struct {
	Duration time.Duration
	MapsURL  string
}

// Client calls the Distance Matrix endpoint.
type Client struct {
	http   *resty.Client
	apiKey string
}

// New returns a client for baseURL (normally https://maps.googleapis.com).
func New(baseURL, apiKey string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(15 * time.Second),
		apiKey: apiKey,
	}
}

type matrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []struct {
			Status   string `json:"status"`
			Duration struct {
				Value int64  `json:"value"` // seconds
				Text  string `json:"text"`
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// Estimate returns the travel time from origin to destination.
func (c *Client) Estimate(ctx context.Context, origin, destination, mode string) (Estimate, error) {
	if !ValidMode(mode) {
		return Estimate{}, fmt.Errorf("unknown travel mode %q", mode)
	}
	mode = strings.ToLower(strings.TrimSpace(mode))

	var body matrixResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"origins":      origin,
			"destinations": destination,
			"mode":         mode,
			"key":          c.apiKey,
		}).
		SetResult(&body).
		Get("/maps/api/distancematrix/json")
	if err != nil {
		return Estimate{}, fmt.Errorf("distance request: %w", err)
	}
	if resp.IsError() {
		return Estimate{}, fmt.Errorf("distance API returned %d: %s", resp.StatusCode(), resp.String())
	}

	if body.Status != "OK" {
		if body.ErrorMessage != "" {
			return Estimate{}, fmt.Errorf("distance API status %s: %s", body.Status, body.ErrorMessage)
		}
		return Estimate{}, fmt.Errorf("distance API status %s", body.Status)
	}
	if len(body.Rows) == 0 || len(body.Rows[0].Elements) == 0 {
		return Estimate{}, fmt.Errorf("distance API returned no route")
	}
	el := body.Rows[0].Elements[0]
	if el.Status != "OK" {
		return Estimate{}, fmt.Errorf("no route from %q to %q: %s", origin, destination, el.Status)
	}

	return Estimate{
		Duration: time.Duration(el.Duration.Value) * time.Second,
		MapsURL:  MapsURL(origin, destination, mode),
	}, nil
}

// MapsURL builds a Google Maps directions link.
func MapsURL(origin, destination, mode string) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("origin", origin)
	q.Set("destination", destination)
	q.Set("travelmode", strings.ToLower(mode))
	return "https://www.google.com/maps/dir/?" + q.Encode()
}
