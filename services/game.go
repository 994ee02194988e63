package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yunlin/oldtown/metrics"
	"github.com/yunlin/oldtown/models"
	"github.com/yunlin/oldtown/store"
	"github.com/yunlin/oldtown/utils"
)

const dailyQuestCount = 3

// Roles a player may pick in preferences. Empty means no role.
var Roles = []string{"foodie", "historian", "explorer", "collector"}

// GameService owns the per-player progression document.
// Writes for one player are serialized inside this process; across processes the last write wins.
type GameService struct {
	store      store.Store
	locks      *utils.KeyedMutex
	metrics    *metrics.Metrics
	now        func() time.Time
	loc        *time.Location
	perm       func(n int) []int
	baseExp    int
	growth     float64
	checkInExp int
}

type GameOption func(*GameService)

// WithClock overrides the time source.
func WithClock(now func() time.Time) GameOption {
	return func(g *GameService) { g.now = now }
}

// WithLocation sets the calendar used for daily refresh and time of day badges.
func WithLocation(loc *time.Location) GameOption {
	return func(g *GameService) {
		if loc != nil {
			g.loc = loc
		}
	}
}

// WithPerm overrides the permutation source used to draw daily quests.
func WithPerm(perm func(n int) []int) GameOption {
	return func(g *GameService) { g.perm = perm }
}

// WithLevelCurve sets expToNextLevel = floor(base * growth^(level-1)).
func WithLevelCurve(base int, growth float64) GameOption {
	return func(g *GameService) {
		if base > 0 {
			g.baseExp = base
		}
		if growth >= 1 {
			g.growth = growth
		}
	}
}

// WithCheckInExp sets the experience granted per check-in.
func WithCheckInExp(exp int) GameOption {
	return func(g *GameService) {
		if exp >= 0 {
			g.checkInExp = exp
		}
	}
}

func WithGameMetrics(m *metrics.Metrics) GameOption {
	return func(g *GameService) { g.metrics = m }
}

func NewGameService(s store.Store, opts ...GameOption) *GameService {
	g := &GameService{
		store:      s,
		locks:      utils.NewKeyedMutex(64),
		now:        time.Now,
		loc:        time.Local,
		perm:       rand.Perm,
		baseExp:    100,
		growth:     1.5,
		checkInExp: 20,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CheckInInput describes one visit.
type CheckInInput struct {
	LocationID  string              `json:"location_id"`
	Category    models.Category     `json:"category"`
	Coordinates *models.Coordinates `json:"coordinates,omitempty"`
	Photo       string              `json:"photo,omitempty"`
	Note        string              `json:"note,omitempty"`
}

// Outcome reports what an operation changed. Callers diff levels here instead of hooking level ups.
type Outcome struct {
	CheckIn      *models.CheckIn      `json:"check_in,omitempty"`
	LevelBefore  int                  `json:"level_before"`
	LevelAfter   int                  `json:"level_after"`
	LeveledUp    bool                 `json:"leveled_up"`
	Achievements []models.Achievement `json:"achievements"`
	Quests       []models.Quest       `json:"quests"`
	DailyQuests  []models.DailyQuest  `json:"daily_quests"`
	Badges       []models.Badge       `json:"badges"`
	Progress     *models.UserProgress `json:"progress"`
}

// ProgressSummary adds derived presentation fields to a progress document.
type ProgressSummary struct {
	*models.UserProgress
	BadgeCompletion int                 `json:"badge_completion"`
	NextAchievement *models.Achievement `json:"next_achievement,omitempty"`
}

func (g *GameService) today(now time.Time) string {
	return now.In(g.loc).Format("2006-01-02")
}

// MaxLevel is the highest reachable level. Experience stops accumulating there.
const MaxLevel = 99

// maxExp bounds stored experience and the level curve so sums never overflow.
const maxExp = math.MaxInt32

// expToNextLevel is floor(base * growth^(level-1)), saturating at maxExp.
func (g *GameService) expToNextLevel(level int) int {
	f := math.Floor(float64(g.baseExp) * math.Pow(g.growth, float64(level-1)))
	if f >= maxExp || math.IsInf(f, 1) {
		return maxExp
	}
	if f < 1 {
		return 1
	}
	return int(f)
}

func (g *GameService) newProgress(now time.Time) *models.UserProgress {
	p := &models.UserProgress{
		SchemaVersion:  CurrentSchemaVersion,
		Level:          1,
		ExpToNextLevel: g.expToNextLevel(1),
		CheckIns:       []models.CheckIn{},
		Badges:         initialBadges(),
		Achievements:   initialAchievements(),
		Quests:         initialQuests(),
		Preferences:    models.Preferences{Notifications: true},
		UpdatedAt:      now,
	}
	g.refreshDaily(p, now)
	return p
}

// refreshDaily redraws daily quests and zeroes daily stats when the stored day is not today.
func (g *GameService) refreshDaily(p *models.UserProgress, now time.Time) bool {
	today := g.today(now)
	if p.LastDailyRefresh == today {
		return false
	}
	n := len(DailyQuestTemplates)
	picks := g.perm(n)
	if len(picks) > dailyQuestCount {
		picks = picks[:dailyQuestCount]
	}
	p.DailyQuests = make([]models.DailyQuest, 0, len(picks))
	for _, i := range picks {
		q := cloneQuest(DailyQuestTemplates[i])
		q.Status = models.QuestAvailable
		p.DailyQuests = append(p.DailyQuests, models.DailyQuest{Quest: q, DailyDate: today})
	}
	p.LastDailyRefresh = today
	p.DailyStats = models.DailyStats{Date: today, Categories: []models.Category{}}
	return true
}

// load reads, migrates and refreshes a player's document. dirty reports whether it differs from storage.
func (g *GameService) load(ctx context.Context, owner string, now time.Time) (p *models.UserProgress, dirty bool, err error) {
	raw, err := g.store.Get(ctx, owner, store.KeyProgress)
	if errors.Is(err, store.ErrNotFound) {
		return g.newProgress(now), true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load progress: %w", err)
	}
	p, dirty, err = decodeProgress(raw)
	if err != nil {
		return nil, false, err
	}
	g.normalize(p)
	if g.refreshDaily(p, now) {
		dirty = true
	}
	return p, dirty, nil
}

func (g *GameService) save(ctx context.Context, owner string, p *models.UserProgress) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := g.store.Put(ctx, owner, store.KeyProgress, b); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// GetProgress returns the player's document, creating it on first read.
func (g *GameService) GetProgress(ctx context.Context, owner string) (*models.UserProgress, error) {
	unlock := g.locks.Lock(owner)
	defer unlock()

	now := g.now()
	p, dirty, err := g.load(ctx, owner, now)
	if err != nil {
		return nil, err
	}
	if dirty {
		p.UpdatedAt = now
		if err := g.save(ctx, owner, p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Summary derives badge completion and the closest unfinished achievement.
func Summary(p *models.UserProgress) ProgressSummary {
	s := ProgressSummary{UserProgress: p}
	if n := len(p.Badges); n > 0 {
		s.BadgeCompletion = len(p.UnlockedBadgeIDs()) * 100 / n
	}
	best := -1.0
	for i := range p.Achievements {
		a := &p.Achievements[i]
		if a.Completed || a.Target <= 0 {
			continue
		}
		if ratio := float64(a.Progress) / float64(a.Target); ratio > best {
			best = ratio
			s.NextAchievement = a
		}
	}
	return s
}

// update runs fn against the player's document under the player lock and persists the result.
func (g *GameService) update(ctx context.Context, owner string, fn func(p *models.UserProgress, now time.Time, out *Outcome) error) (*Outcome, error) {
	unlock := g.locks.Lock(owner)
	defer unlock()

	now := g.now()
	p, _, err := g.load(ctx, owner, now)
	if err != nil {
		return nil, err
	}
	before := p.UnlockedBadgeIDs()
	out := &Outcome{
		LevelBefore:  p.Level,
		Achievements: []models.Achievement{},
		Quests:       []models.Quest{},
		DailyQuests:  []models.DailyQuest{},
		Badges:       []models.Badge{},
	}
	if err := fn(p, now, out); err != nil {
		return nil, err
	}

	out.LevelAfter = p.Level
	out.LeveledUp = p.Level > out.LevelBefore
	for _, b := range p.Badges {
		if _, had := before[b.ID]; b.Unlocked && !had {
			out.Badges = append(out.Badges, b)
		}
	}
	p.UpdatedAt = now
	if err := g.save(ctx, owner, p); err != nil {
		return nil, err
	}
	out.Progress = p

	g.metrics.ObserveLevelUps(out.LevelAfter - out.LevelBefore)
	for _, a := range out.Achievements {
		g.metrics.ObserveAchievement(a.ID)
	}
	for range out.Quests {
		g.metrics.ObserveQuest("quest")
	}
	for range out.DailyQuests {
		g.metrics.ObserveQuest("daily")
	}
	if out.LeveledUp {
		utils.Logger.Info("player leveled up",
			zap.String("player", owner),
			zap.Int("from", out.LevelBefore),
			zap.Int("to", out.LevelAfter))
	}
	return out, nil
}

// RecordCheckIn appends a check-in, updates stats, settles daily quests, grants the check-in
// reward and then evaluates achievements, quests and time of day badges.
// Repeated check-ins at one location are all recorded.
func (g *GameService) RecordCheckIn(ctx context.Context, owner string, in CheckInInput) (*Outcome, error) {
	if strings.TrimSpace(in.LocationID) == "" {
		return nil, fmt.Errorf("%w: location_id is required", ErrInvalidInput)
	}
	if _, ok := models.ParseCategory(string(in.Category)); !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, in.Category)
	}

	out, err := g.update(ctx, owner, func(p *models.UserProgress, now time.Time, out *Outcome) error {
		ci := g.recordCheckIn(p, in, now)
		out.CheckIn = &ci
		out.DailyQuests = append(out.DailyQuests, g.checkDailyQuests(p, now)...)
		g.addExp(p, g.checkInExp)
		g.evaluate(p, now, out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	g.metrics.ObserveCheckIn(string(in.Category))
	return out, nil
}

func (g *GameService) recordCheckIn(p *models.UserProgress, in CheckInInput, now time.Time) models.CheckIn {
	ci := models.CheckIn{
		ID:          uuid.NewString(),
		LocationID:  in.LocationID,
		Category:    in.Category,
		Timestamp:   now,
		Coordinates: in.Coordinates,
		Photo:       in.Photo,
		Note:        in.Note,
	}

	if ci.Coordinates != nil {
		for i := len(p.CheckIns) - 1; i >= 0; i-- {
			if prev := p.CheckIns[i].Coordinates; prev != nil {
				p.Stats.TotalDistance += Distance(*prev, *ci.Coordinates)
				break
			}
		}
	}
	p.CheckIns = append(p.CheckIns, ci)

	p.Stats.TotalCheckIns++
	locations := make([]string, len(p.CheckIns))
	for i, c := range p.CheckIns {
		locations[i] = c.LocationID
	}
	p.Stats.UniqueLocations = len(utils.UniqueStrings(locations))

	p.DailyStats.CheckIns++
	switch in.Category {
	case models.CategoryFood:
		p.Stats.FoodVisited++
		p.DailyStats.FoodVisits++
	case models.CategoryCulture:
		p.Stats.CultureVisited++
		p.DailyStats.CultureVisits++
	case models.CategoryShopping:
		p.Stats.ShoppingVisited++
		p.DailyStats.ShoppingVisits++
	}
	if !containsCategory(p.DailyStats.Categories, in.Category) {
		p.DailyStats.Categories = append(p.DailyStats.Categories, in.Category)
	}
	return ci
}

func containsCategory(list []models.Category, c models.Category) bool {
	for _, v := range list {
		if v == c {
			return true
		}
	}
	return false
}

// AddExperience grants amount experience, leveling up as many times as it covers.
func (g *GameService) AddExperience(ctx context.Context, owner string, amount int) (*Outcome, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: experience must not be negative", ErrInvalidInput)
	}
	return g.update(ctx, owner, func(p *models.UserProgress, now time.Time, out *Outcome) error {
		g.addExp(p, amount)
		return nil
	})
}

// addExp adds amount and carries the remainder over as many level ups as it pays for.
// At MaxLevel the remainder is dropped so exp stays below expToNextLevel.
func (g *GameService) addExp(p *models.UserProgress, amount int) {
	p.Exp = min(p.Exp+amount, maxExp)
	for p.Exp >= p.ExpToNextLevel && p.Level < MaxLevel {
		p.Exp -= p.ExpToNextLevel
		p.Level++
		p.ExpToNextLevel = g.expToNextLevel(p.Level)
	}
	if p.Level >= MaxLevel && p.Exp >= p.ExpToNextLevel {
		p.Exp = p.ExpToNextLevel - 1
	}
}

// CheckAchievements completes every achievement whose stat reached its target and
// returns only the ones completed by this call.
func (g *GameService) CheckAchievements(ctx context.Context, owner string) ([]models.Achievement, error) {
	out, err := g.update(ctx, owner, func(p *models.UserProgress, now time.Time, out *Outcome) error {
		out.Achievements = g.checkAchievements(p, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out.Achievements, nil
}

func (g *GameService) checkAchievements(p *models.UserProgress, now time.Time) []models.Achievement {
	completed := []models.Achievement{}
	for i := range p.Achievements {
		a := &p.Achievements[i]
		if a.Completed {
			continue
		}
		a.Progress = achievementProgress(a, p)
		if a.Progress < a.Target {
			continue
		}
		at := now
		a.Completed = true
		a.CompletedAt = &at
		g.addExp(p, a.Rewards.Exp)
		for _, id := range a.Rewards.Badges {
			g.unlockBadge(p, id, now)
		}
		completed = append(completed, *a)
	}
	return completed
}

// achievementProgress maps an achievement id prefix to the aggregate it tracks.
func achievementProgress(a *models.Achievement, p *models.UserProgress) int {
	switch {
	case strings.HasPrefix(a.ID, "checkin_"):
		return p.Stats.TotalCheckIns
	case strings.HasPrefix(a.ID, "food_"):
		return p.Stats.FoodVisited
	case strings.HasPrefix(a.ID, "culture_"):
		return p.Stats.CultureVisited
	case strings.HasPrefix(a.ID, "shopping_"):
		return p.Stats.ShoppingVisited
	case strings.HasPrefix(a.ID, "level_"):
		return p.Level
	case strings.HasPrefix(a.ID, "photo_"):
		return p.Stats.TotalPhotos
	case a.ID == "all_categories":
		return visitedCategories(p)
	}
	return a.Progress
}

func visitedCategories(p *models.UserProgress) int {
	n := 0
	for _, c := range []int{p.Stats.FoodVisited, p.Stats.CultureVisited, p.Stats.ShoppingVisited} {
		if c > 0 {
			n++
		}
	}
	return n
}

// CheckQuests settles persistent quests and returns the ones completed by this call.
func (g *GameService) CheckQuests(ctx context.Context, owner string) ([]models.Quest, error) {
	out, err := g.update(ctx, owner, func(p *models.UserProgress, now time.Time, out *Outcome) error {
		out.Quests = g.checkQuests(p, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out.Quests, nil
}

func (g *GameService) checkQuests(p *models.UserProgress, now time.Time) []models.Quest {
	completed := []models.Quest{}
	for i := range p.Quests {
		q := &p.Quests[i]
		if q.Status == models.QuestCompleted || q.Status == models.QuestLocked || len(q.Requirements) == 0 {
			continue
		}
		done, started := true, false
		for j := range q.Requirements {
			r := &q.Requirements[j]
			r.Current = questStat(r.Type, p)
			if r.Current < r.Target {
				done = false
			}
			if r.Current > 0 {
				started = true
			}
		}
		if !done {
			if started {
				q.Status = models.QuestInProgress
			}
			continue
		}
		at := now
		q.Status = models.QuestCompleted
		q.CompletedAt = &at
		g.addExp(p, q.Rewards.Exp)
		for _, id := range q.Rewards.Badges {
			g.unlockBadge(p, id, now)
		}
		completed = append(completed, *q)
	}
	return completed
}

func questStat(kind string, p *models.UserProgress) int {
	switch kind {
	case "checkin":
		return p.Stats.TotalCheckIns
	case "unique_locations":
		return p.Stats.UniqueLocations
	case "food_visits":
		return p.Stats.FoodVisited
	case "culture_visits":
		return p.Stats.CultureVisited
	case "shopping_visits":
		return p.Stats.ShoppingVisited
	case "level":
		return p.Level
	case "photos":
		return p.Stats.TotalPhotos
	}
	return 0
}

func (g *GameService) checkDailyQuests(p *models.UserProgress, now time.Time) []models.DailyQuest {
	completed := []models.DailyQuest{}
	for i := range p.DailyQuests {
		q := &p.DailyQuests[i]
		if q.Status == models.QuestCompleted || len(q.Requirements) == 0 {
			continue
		}
		r := &q.Requirements[0]
		r.Current = dailyStat(r.Type, p)
		if r.Current < r.Target {
			continue
		}
		at := now
		q.Status = models.QuestCompleted
		q.CompletedAt = &at
		g.addExp(p, q.Rewards.Exp)
		completed = append(completed, *q)
	}
	return completed
}

func dailyStat(kind string, p *models.UserProgress) int {
	switch kind {
	case "daily_checkins":
		return p.DailyStats.CheckIns
	case "daily_food":
		return p.DailyStats.FoodVisits
	case "daily_culture":
		return p.DailyStats.CultureVisits
	case "daily_shopping":
		return p.DailyStats.ShoppingVisits
	case "daily_diverse":
		return len(p.DailyStats.Categories)
	case "daily_photos":
		return p.DailyStats.Photos
	}
	return 0
}

// evaluate settles achievements, quests and time of day badges until nothing changes.
// Rewards can level a player up, which in turn can complete level based entries.
func (g *GameService) evaluate(p *models.UserProgress, now time.Time, out *Outcome) {
	g.checkTimeBadges(p, now)
	for {
		a := g.checkAchievements(p, now)
		q := g.checkQuests(p, now)
		out.Achievements = append(out.Achievements, a...)
		out.Quests = append(out.Quests, q...)
		if len(a) == 0 && len(q) == 0 {
			return
		}
	}
}

// Evaluate runs every stat derived check and reports what completed.
func (g *GameService) Evaluate(ctx context.Context, owner string) (*Outcome, error) {
	return g.update(ctx, owner, func(p *models.UserProgress, now time.Time, out *Outcome) error {
		out.DailyQuests = append(out.DailyQuests, g.checkDailyQuests(p, now)...)
		g.evaluate(p, now, out)
		return nil
	})
}

func (g *GameService) checkTimeBadges(p *models.UserProgress, now time.Time) {
	weekend := 0
	for _, ci := range p.CheckIns {
		t := ci.Timestamp.In(g.loc)
		if t.Hour() < 8 {
			g.unlockBadge(p, "badge_early_bird", now)
		}
		if t.Hour() >= 22 {
			g.unlockBadge(p, "badge_night_owl", now)
		}
		if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekend++
		}
	}
	if weekend >= 10 {
		g.unlockBadge(p, "badge_weekend_warrior", now)
	}
}

// UnlockBadge flips a badge to unlocked. It reports false when the badge was already unlocked.
func (g *GameService) UnlockBadge(ctx context.Context, owner, badgeID string) (bool, error) {
	var changed bool
	_, err := g.update(ctx, owner, func(p *models.UserProgress, now time.Time, out *Outcome) error {
		var ok bool
		if changed, ok = g.unlockBadge(p, badgeID, now); !ok {
			return fmt.Errorf("%w: badge %q", ErrNotFound, badgeID)
		}
		return nil
	})
	return changed, err
}

func (g *GameService) unlockBadge(p *models.UserProgress, id string, now time.Time) (changed, found bool) {
	for i := range p.Badges {
		b := &p.Badges[i]
		if b.ID != id {
			continue
		}
		if b.Unlocked {
			return false, true
		}
		at := now
		b.Unlocked = true
		b.UnlockedAt = &at
		return true, true
	}
	return false, false
}

// RecordPhoto counts an uploaded photo and settles photo driven quests and achievements.
// It is the only place photos are counted; a check-in's photo reference points at a wall
// photo that was already counted on upload.
func (g *GameService) RecordPhoto(ctx context.Context, owner string) (*Outcome, error) {
	return g.update(ctx, owner, func(p *models.UserProgress, now time.Time, out *Outcome) error {
		p.Stats.TotalPhotos++
		p.DailyStats.Photos++
		out.DailyQuests = append(out.DailyQuests, g.checkDailyQuests(p, now)...)
		g.evaluate(p, now, out)
		return nil
	})
}

// CheckInStatus reports whether the player has visited locationID and how many times.
func (g *GameService) CheckInStatus(ctx context.Context, owner, locationID string) (bool, int, error) {
	p, err := g.GetProgress(ctx, owner)
	if err != nil {
		return false, 0, err
	}
	n := 0
	for _, ci := range p.CheckIns {
		if ci.LocationID == locationID {
			n++
		}
	}
	return n > 0, n, nil
}

// UpdatePreferences replaces the player's preferences.
func (g *GameService) UpdatePreferences(ctx context.Context, owner string, prefs models.Preferences) (*models.UserProgress, error) {
	if prefs.Role != "" && !utils.ContainsString(Roles, prefs.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, prefs.Role)
	}
	out, err := g.update(ctx, owner, func(p *models.UserProgress, now time.Time, out *Outcome) error {
		p.Preferences = prefs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out.Progress, nil
}

// ResetProgress discards the player's document. The next read starts over at level 1.
func (g *GameService) ResetProgress(ctx context.Context, owner string) error {
	unlock := g.locks.Lock(owner)
	defer unlock()
	return g.store.Delete(ctx, owner, store.KeyProgress)
}

// ImportProgress replaces the player's document with raw, migrating older shapes first.
func (g *GameService) ImportProgress(ctx context.Context, owner string, raw []byte) (*models.UserProgress, error) {
	p, _, err := decodeProgress(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	unlock := g.locks.Lock(owner)
	defer unlock()

	now := g.now()
	g.normalize(p)
	g.refreshDaily(p, now)
	p.SchemaVersion = CurrentSchemaVersion
	p.UpdatedAt = now
	if err := g.save(ctx, owner, p); err != nil {
		return nil, err
	}
	return p, nil
}
