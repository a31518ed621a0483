package ratings

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"ratemyclass/internal/relay"
	"strconv"
)

const (
	DEFAULT_ENDPOINT   = "https://www.ratemyprofessors.com/graphql"
	DEFAULT_USER_AGENT = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

	search_result_count = 10
	base_content_length = 1525
	max_content_jitter  = 4000
)

// School identifies the institution searches are scoped to.
type School struct {
	ID   int
	Name string
}

// EncodedID is the relay-style global id upstream uses for schools.
func (s School) EncodedID() string {
	return base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("School-%d", s.ID)))
}

// normalSample draws from a normal distribution centered between min and max
// with 99.7% of the mass inside the range, clamped to it.
func normalSample(min, max float64) float64 {
	mean := (min + max) / 2
	stdDev := (max - min) / 6
	result := rand.NormFloat64()*stdDev + mean
	if result < min {
		return min
	}
	if result > max {
		return max
	}
	return result
}

// contentLength is the value sent in the Content-Length header, it varies
// between requests so consecutive lookups do not look identical to upstream.
func contentLength() int {
	return base_content_length + int(normalSample(0, max_content_jitter))
}

func buildSearchRequest(endpoint, userAgent string, school School, name string) (relay.Request, error) {
	variables := searchVariables{Count: search_result_count}
	variables.Query.Text = name
	variables.Query.SchoolID = school.EncodedID()

	body, err := json.Marshal(graphqlRequest{
		Query:     searchTeachersQuery,
		Variables: variables,
	})
	if err != nil {
		return relay.Request{}, err
	}

	cookie := fmt.Sprintf(
		"ccpa-notice-viewed-02=true; userSchoolId=%s; userSchoolLegacyId=%d; userSchoolName=%s;",
		school.EncodedID(),
		school.ID,
		url.PathEscape(school.Name),
	)

	return relay.Request{
		URL: endpoint,
		Options: &relay.Options{
			Method: http.MethodPost,
			Headers: map[string]string{
				"Host":            "www.ratemyprofessor.com",
				"User-Agent":      userAgent,
				"Accept":          "*/*",
				"Accept-Language": "en-US,en;q=0.5",
				"Accept-Encoding": "gzip, deflate, br",
				"Referer":         "https://www.ratemyprofessors.com",
				"Content-Type":    "application/json",
				"Authorization":   "Basic dGVzdDp0ZXN0",
				"Content-Length":  strconv.Itoa(contentLength()),
				"Origin":          "https://www.ratemyprofessors.com",
				"Connection":      "keep-alive",
				"Cookie":          cookie,
				"Sec-Fetch-Dest":  "empty",
				"Sec-Fetch-Mode":  "cors",
				"Sec-Fetch-Site":  "same-origin",
			},
			Body: string(body),
		},
	}, nil
}
