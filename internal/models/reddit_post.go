package models

import "time"

// RedditPost is a social post gathered while enriching a market. Rows are
// written only alongside a stored signal; the (market_id, post_id) pair is
// unique so a post re-surfaced on a later pass updates in place.
type RedditPost struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	MarketID    string    `gorm:"type:text;not null;uniqueIndex:idx_reddit_market_post" json:"market_id"`
	PostID      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_reddit_market_post" json:"post_id"`
	Title       string    `gorm:"type:text;not null" json:"title"`
	Body        string    `gorm:"type:text" json:"body"`
	Author      string    `gorm:"type:text" json:"author"`
	Subreddit   string    `gorm:"type:text" json:"subreddit"`
	Score       int       `gorm:"not null;default:0" json:"score"`
	UpvoteRatio float64   `gorm:"not null;default:0" json:"upvote_ratio"`
	NumComments int       `gorm:"not null;default:0" json:"num_comments"`
	Permalink   string    `gorm:"type:text" json:"permalink"`
	PostedAt    time.Time `gorm:"type:timestamptz" json:"posted_at"`
	CreatedAt   time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
}

func (RedditPost) TableName() string {
	return "reddit_posts"
}
