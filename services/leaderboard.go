package services

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/yunlin/oldtown/models"
)

// Leaderboard sort keys.
const (
	SortLevel    = "level"
	SortExp      = "exp"
	SortBadges   = "badges"
	SortCheckIns = "checkIns"
)

// Ranking ranks the current player among others.
type Ranking interface {
	Leaderboard(ctx context.Context, current models.LeaderboardEntry, sortBy string) ([]models.LeaderboardEntry, error)
}

// EntryFor builds the current player's leaderboard row.
func EntryFor(username string, p *models.UserProgress) models.LeaderboardEntry {
	if username == "" {
		username = fmt.Sprintf("Explorer%d", p.Level)
	}
	return models.LeaderboardEntry{
		Username:  username,
		Level:     p.Level,
		Exp:       p.Exp,
		Badges:    len(p.UnlockedBadgeIDs()),
		CheckIns:  p.Stats.TotalCheckIns,
		IsCurrent: true,
	}
}

var (
	namePrefixes = []string{"Chrono", "Neon", "Retro", "Cyber", "Steam", "Stellar", "Galaxy", "Quantum", "Future", "Classic"}
	nameSuffixes = []string{"Traveller", "Explorer", "Adventurer", "Wanderer", "Ranger", "Warrior", "Master", "Hunter", "Guardian", "Walker"}
)

// MockRanking fabricates rivals around the current player's level. There is no shared player registry.
type MockRanking struct {
	Size int

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewMockRanking(seed int64) *MockRanking {
	return &MockRanking{Size: 20, rnd: rand.New(rand.NewSource(seed))}
}

func (m *MockRanking) Leaderboard(_ context.Context, current models.LeaderboardEntry, sortBy string) ([]models.LeaderboardEntry, error) {
	less, err := leaderboardOrder(sortBy)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]models.LeaderboardEntry, 0, m.Size+1)
	entries = append(entries, current)
	for i := 0; i < m.Size; i++ {
		level := max(1, current.Level+m.rnd.Intn(10)-5)
		entries = append(entries, models.LeaderboardEntry{
			Username: fmt.Sprintf("%s%s%d", namePrefixes[m.rnd.Intn(len(namePrefixes))], nameSuffixes[m.rnd.Intn(len(nameSuffixes))], m.rnd.Intn(999)),
			Level:    level,
			Exp:      int(float64(level*100) * m.rnd.Float64()),
			Badges:   int(float64(level)*0.8 + m.rnd.Float64()*5),
			CheckIns: int(float64(level*3) + m.rnd.Float64()*20),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool { return less(entries[i], entries[j]) })
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func leaderboardOrder(sortBy string) (func(a, b models.LeaderboardEntry) bool, error) {
	switch sortBy {
	case "", SortLevel:
		return func(a, b models.LeaderboardEntry) bool {
			if a.Level != b.Level {
				return a.Level > b.Level
			}
			return a.Exp > b.Exp
		}, nil
	case SortExp:
		return func(a, b models.LeaderboardEntry) bool { return a.Exp > b.Exp }, nil
	case SortBadges:
		return func(a, b models.LeaderboardEntry) bool { return a.Badges > b.Badges }, nil
	case SortCheckIns:
		return func(a, b models.LeaderboardEntry) bool { return a.CheckIns > b.CheckIns }, nil
	}
	return nil, fmt.Errorf("%w: unknown sort %q", ErrInvalidInput, sortBy)
}
