package model

import "time"

type Review struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Helpful   int       `json:"helpful"`
	CreatedAt time.Time `json:"createdAt"`
}

// レビューの集計
type RatingSummary struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

func SummarizeReviews(reviews []Review) RatingSummary {
	if len(reviews) == 0 {
		return RatingSummary{}
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return RatingSummary{
		Count:   len(reviews),
		Average: float64(sum) / float64(len(reviews)),
	}
}
