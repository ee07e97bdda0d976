package tally

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	tcases := []struct {
		name     string
		counts   []CandidateCount
		expected Result
	}{
		{
			name: "no votes yields zero percentages",
			counts: []CandidateCount{
				{Id: 1, Name: "Candidate A", VoteCount: 0},
				{Id: 2, Name: "Candidate B", VoteCount: 0},
			},
			expected: Result{
				TotalVotes: 0,
				Candidates: []CandidateResult{
					{Id: 1, Name: "Candidate A", VoteCount: 0, Percentage: 0},
					{Id: 2, Name: "Candidate B", VoteCount: 0, Percentage: 0},
				},
			},
		},
		{
			name: "single voter gives one candidate everything",
			counts: []CandidateCount{
				{Id: 1, Name: "Candidate A", VoteCount: 1},
				{Id: 2, Name: "Candidate B", VoteCount: 0},
			},
			expected: Result{
				TotalVotes: 1,
				Candidates: []CandidateResult{
					{Id: 1, Name: "Candidate A", VoteCount: 1, Percentage: 100},
					{Id: 2, Name: "Candidate B", VoteCount: 0, Percentage: 0},
				},
			},
		},
		{
			name: "percentages rounded to two decimals",
			counts: []CandidateCount{
				{Id: 1, Name: "Candidate A", VoteCount: 1},
				{Id: 2, Name: "Candidate B", VoteCount: 2},
			},
			expected: Result{
				TotalVotes: 3,
				Candidates: []CandidateResult{
					{Id: 1, Name: "Candidate A", VoteCount: 1, Percentage: 33.33},
					{Id: 2, Name: "Candidate B", VoteCount: 2, Percentage: 66.67},
				},
			},
		},
		{
			name:   "no candidates",
			counts: nil,
			expected: Result{
				TotalVotes: 0,
				Candidates: []CandidateResult{},
			},
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Compute(tc.counts))
		})
	}
}

func TestCompute_TotalMatchesSum(t *testing.T) {
	counts := []CandidateCount{
		{Id: 1, Name: "a", VoteCount: 7},
		{Id: 2, Name: "b", VoteCount: 11},
		{Id: 3, Name: "c", VoteCount: 0},
	}

	res := Compute(counts)
	var sum int
	for _, c := range res.Candidates {
		sum += c.VoteCount
	}
	assert.Equal(t, res.TotalVotes, sum)
}
