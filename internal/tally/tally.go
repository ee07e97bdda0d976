// Package tally computes per-candidate vote counts and percentages for
// a room from raw count rows.
package tally

import "math"

type CandidateCount struct {
	Id        int
	Name      string
	VoteCount int
}

type CandidateResult struct {
	Id         int     `json:"id"`
	Name       string  `json:"name"`
	VoteCount  int     `json:"vote_count"`
	Percentage float64 `json:"percentage"`
}

type Result struct {
	TotalVotes int
	Candidates []CandidateResult
}

// Compute aggregates candidate vote counts into a tally. Percentages
// are rounded to two decimal places and are 0 for every candidate when
// the room has no votes at all.
func Compute(counts []CandidateCount) Result {
	var total int
	for _, c := range counts {
		total += c.VoteCount
	}

	candidates := make([]CandidateResult, 0, len(counts))
	for _, c := range counts {
		var pct float64
		if total > 0 {
			pct = math.Round(float64(c.VoteCount)*100/float64(total)*100) / 100
		}

		candidates = append(candidates, CandidateResult{
			Id:         c.Id,
			Name:       c.Name,
			VoteCount:  c.VoteCount,
			Percentage: pct,
		})
	}

	return Result{
		TotalVotes: total,
		Candidates: candidates,
	}
}
