package models

import "time"

// Coordinates is a WGS84 position in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Badge is a cosmetic unlock. Catalog fields are static; Unlocked/UnlockedAt are per player.
type Badge struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Color       string     `json:"color"`
	Category    Category   `json:"category,omitempty"`
	Rarity      Rarity     `json:"rarity"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

// Reward is granted once when an achievement or quest completes.
type Reward struct {
	Exp    int      `json:"exp"`
	Badges []string `json:"badges,omitempty"`
}

// Achievement is a one-time milestone derived from aggregate stats.
type Achievement struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Progress    int        `json:"progress"`
	Target      int        `json:"target"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Rewards     Reward     `json:"rewards"`
}

// CheckIn is an immutable visit record.
type CheckIn struct {
	ID          string       `json:"id"`
	LocationID  string       `json:"location_id"`
	Category    Category     `json:"category"`
	Timestamp   time.Time    `json:"timestamp"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Photo       string       `json:"photo,omitempty"`
	Note        string       `json:"note,omitempty"`
}

type QuestType string

const (
	QuestVisit     QuestType = "visit"
	QuestCollect   QuestType = "collect"
	QuestExplore   QuestType = "explore"
	QuestChallenge QuestType = "challenge"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type QuestStatus string

const (
	QuestLocked     QuestStatus = "locked"
	QuestAvailable  QuestStatus = "available"
	QuestInProgress QuestStatus = "in_progress"
	QuestCompleted  QuestStatus = "completed"
)

// Requirement is a single counter a quest watches.
type Requirement struct {
	Type    string `json:"type"`
	Target  int    `json:"target"`
	Current int    `json:"current"`
}

type Quest struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Category     Category      `json:"category,omitempty"`
	Type         QuestType     `json:"type"`
	Difficulty   Difficulty    `json:"difficulty"`
	Requirements []Requirement `json:"requirements"`
	Rewards      Reward        `json:"rewards"`
	Status       QuestStatus   `json:"status"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
	ExpiresAt    *time.Time    `json:"expires_at,omitempty"`
}

// DailyQuest is a quest instance bound to one calendar day (YYYY-MM-DD).
type DailyQuest struct {
	Quest
	DailyDate string `json:"daily_date"`
}

// Stats are lifetime aggregates. Achievements and quests derive their progress from these.
type Stats struct {
	TotalCheckIns   int     `json:"total_check_ins"`
	UniqueLocations int     `json:"unique_locations"`
	FoodVisited     int     `json:"food_visited"`
	CultureVisited  int     `json:"culture_visited"`
	ShoppingVisited int     `json:"shopping_visited"`
	TotalPhotos     int     `json:"total_photos"`
	TotalDistance   float64 `json:"total_distance"`
}

// DailyStats are zeroed whenever the calendar day changes.
type DailyStats struct {
	Date           string     `json:"date"`
	CheckIns       int        `json:"check_ins"`
	FoodVisits     int        `json:"food_visits"`
	CultureVisits  int        `json:"culture_visits"`
	ShoppingVisits int        `json:"shopping_visits"`
	Photos         int        `json:"photos"`
	Categories     []Category `json:"categories"`
}

type Preferences struct {
	Role          string `json:"role,omitempty"`
	Notifications bool   `json:"notifications"`
}

// UserProgress is the single progression document kept per player.
type UserProgress struct {
	SchemaVersion    int           `json:"schema_version"`
	Level            int           `json:"level"`
	Exp              int           `json:"exp"`
	ExpToNextLevel   int           `json:"exp_to_next_level"`
	CheckIns         []CheckIn     `json:"check_ins"`
	Badges           []Badge       `json:"badges"`
	Achievements     []Achievement `json:"achievements"`
	Quests           []Quest       `json:"quests"`
	DailyQuests      []DailyQuest  `json:"daily_quests"`
	LastDailyRefresh string        `json:"last_daily_refresh"`
	Stats            Stats         `json:"stats"`
	DailyStats       DailyStats    `json:"daily_stats"`
	Preferences      Preferences   `json:"preferences"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// UnlockedBadgeIDs returns the ids of every unlocked badge.
func (p *UserProgress) UnlockedBadgeIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	for _, b := range p.Badges {
		if b.Unlocked {
			ids[b.ID] = struct{}{}
		}
	}
	return ids
}

// LeaderboardEntry is one row of a ranking.
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	Username  string `json:"username"`
	Level     int    `json:"level"`
	Exp       int    `json:"exp"`
	Badges    int    `json:"badges"`
	CheckIns  int    `json:"check_ins"`
	IsCurrent bool   `json:"is_current,omitempty"`
}
