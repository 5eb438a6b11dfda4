package reddit

import "math"

// Raw per-post weights typically land between these bounds; the band is an
// empirically chosen normalization window, not a universal constant. Averages
// outside it saturate at 0 or 100.
const (
	sentimentFloor   = 0.5
	sentimentCeiling = 2.0
)

// SentimentScore maps a set of posts to an engagement-weighted score in
// [0, 100]. Each post contributes upvote_ratio * (1 + log10(max(score, 1)));
// the average weight is clamped into the observed band and rescaled linearly.
// No posts means no evidence either way, so the result is a neutral 50.
func SentimentScore(posts []Post) int {
	if len(posts) == 0 {
		return 50
	}

	var total float64
	for _, p := range posts {
		score := float64(p.Score)
		if score < 1 {
			score = 1
		}
		total += p.UpvoteRatio * (1 + math.Log10(score))
	}
	avg := total / float64(len(posts))

	if avg < sentimentFloor {
		avg = sentimentFloor
	}
	if avg > sentimentCeiling {
		avg = sentimentCeiling
	}

	scaled := (avg - sentimentFloor) / (sentimentCeiling - sentimentFloor) * 100
	return int(math.Round(scaled))
}
