package matcher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsMismatch(t *testing.T) {
	testCases := []struct {
		upstream string
		queried  string
		mismatch bool
	}{
		{upstream: "Jane Doe", queried: "Jane Doe", mismatch: false},
		{upstream: "JANE DOE", queried: "jane doe", mismatch: false},
		{upstream: "Jon Doe", queried: "Jane Doe", mismatch: true},
		// known gaps stay mismatches
		{upstream: "Jane Marie Doe", queried: "Jane Doe", mismatch: true},
		{upstream: "Jane Doe", queried: "J. Doe", mismatch: true},
		{upstream: "Jane Doe-Smith", queried: "Jane Doe", mismatch: true},
		{upstream: "Robert Doe", queried: "Bob Doe", mismatch: true},
	}

	for _, test := range testCases {
		require.Equal(
			t,
			test.mismatch,
			IsMismatch(test.upstream, test.queried),
			"%q vs %q", test.upstream, test.queried,
		)
	}
}

func TestSimilarity(t *testing.T) {
	require.InDelta(t, 1.0, Similarity("Jane Doe", "jane doe"), 0.0001)
	require.Greater(t, Similarity("Jane Marie Doe", "Jane Doe"), NEAR_MATCH)
	require.Less(t, Similarity("Alan Turing", "Grace Hopper"), NEAR_MATCH)
}
