package ratings

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotFound means upstream answered but had no professor for the name.
	ErrNotFound = errors.New("no professor found")
	// ErrInvalidResponse means the relay answered with JSON that is not a
	// teacher search result.
	ErrInvalidResponse = errors.New("invalid response format")
	// ErrNetwork means the relay could not perform the request.
	ErrNetwork = errors.New("network error")
)

// Record is the normalized result of one professor lookup.
type Record struct {
	Name                  string
	Department            string
	School                string
	AvgRating             float64
	NumRatings            int
	WouldTakeAgainPercent *float64
	ID                    string
}

func parseSearchResponse(body json.RawMessage) (Record, error) {
	var parsed graphqlResponse[searchTeachersData]
	err := json.Unmarshal(body, &parsed)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	if parsed.Data == nil ||
		parsed.Data.NewSearch == nil ||
		parsed.Data.NewSearch.Teachers == nil ||
		parsed.Data.NewSearch.Teachers.Edges == nil {
		return Record{}, fmt.Errorf("%w: missing data.newSearch.teachers.edges", ErrInvalidResponse)
	}

	edges := *parsed.Data.NewSearch.Teachers.Edges
	if len(edges) == 0 {
		return Record{}, ErrNotFound
	}

	node := edges[0].Node
	return Record{
		Name:                  fmt.Sprintf("%s %s", node.FirstName, node.LastName),
		Department:            node.Department,
		School:                node.School.Name,
		AvgRating:             node.AvgRating,
		NumRatings:            node.NumRatings,
		WouldTakeAgainPercent: node.WouldTakeAgainPercentRounded,
		ID:                    node.LegacyID.String(),
	}, nil
}
