package profile

import (
	"time"

	"github.com/google/uuid"
)

// Reputation actions and their point awards.
const (
	ActionThreadCreated     = "thread_created"
	ActionPostCreated       = "post_created"
	ActionNominationCreated = "nomination_created"
	ActionVoteReceived      = "vote_received"
	ActionAdPublished       = "ad_published"
	ActionArticlePublished  = "article_published"
	ActionMediaUploaded     = "media_uploaded"
)

var actionPoints = map[string]int{
	ActionThreadCreated:     10,
	ActionPostCreated:       5,
	ActionNominationCreated: 15,
	ActionVoteReceived:      2,
	ActionAdPublished:       5,
	ActionArticlePublished:  8,
	ActionMediaUploaded:     3,
}

// levelThresholds[i] is the minimum reputation for level i+1.
var levelThresholds = []int{0, 100, 300, 800, 2000}

var levelNames = map[int]string{
	1: "Potro",
	2: "Jinete",
	3: "Domador",
	4: "Criador",
	5: "Leyenda",
}

// LevelForReputation maps a reputation total onto a level, 1-based.
func LevelForReputation(points int) int {
	level := 1
	for i, min := range levelThresholds {
		if points >= min {
			level = i + 1
		}
	}
	return level
}

// LevelName returns the Spanish display name for a level.
func LevelName(level int) string {
	if name, ok := levelNames[level]; ok {
		return name
	}
	return levelNames[1]
}

type Badge struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Code      string    `json:"code"`
	AwardedAt time.Time `json:"awarded_at"`
}

// Profile is the public view of a user: identity plus gamification state.
type Profile struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	Location    string    `json:"location"`
	Reputation  int       `json:"reputation"`
	Level       int       `json:"level"`
	LevelName   string    `json:"level_name"`
	Badges      []*Badge  `json:"badges"`
	CreatedAt   time.Time `json:"created_at"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	Location    string `json:"location"`
}
