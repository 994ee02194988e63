package services

import (
	"time"

	"github.com/yunlin/oldtown/models"
)

// BadgeCatalog lists every badge a player can unlock.
var BadgeCatalog = []models.Badge{
	{ID: "badge_newbie", Name: "Time Traveller", Description: "Begin your old town adventure", Icon: "fa-rocket", Color: "cyan", Rarity: models.RarityCommon},
	{ID: "badge_first_checkin", Name: "First Check-In", Description: "Complete your first check-in", Icon: "fa-map-pin", Color: "pink", Rarity: models.RarityCommon},

	{ID: "badge_food_explorer", Name: "Food Explorer", Description: "Visit 5 food spots", Icon: "fa-utensils", Color: "pink", Category: models.CategoryFood, Rarity: models.RarityCommon},
	{ID: "badge_food_master", Name: "Food Master", Description: "Visit 10 food spots", Icon: "fa-hamburger", Color: "pink", Category: models.CategoryFood, Rarity: models.RarityRare},
	{ID: "badge_food_legend", Name: "Food Legend", Description: "Visit every food spot", Icon: "fa-crown", Color: "pink", Category: models.CategoryFood, Rarity: models.RarityLegendary},

	{ID: "badge_culture_seeker", Name: "Culture Seeker", Description: "Visit 5 cultural sites", Icon: "fa-landmark", Color: "blue", Category: models.CategoryCulture, Rarity: models.RarityCommon},
	{ID: "badge_culture_scholar", Name: "Culture Scholar", Description: "Visit 10 cultural sites", Icon: "fa-book", Color: "blue", Category: models.CategoryCulture, Rarity: models.RarityRare},
	{ID: "badge_culture_guardian", Name: "Culture Guardian", Description: "Visit every cultural site", Icon: "fa-shield-alt", Color: "purple", Category: models.CategoryCulture, Rarity: models.RarityLegendary},

	{ID: "badge_shop_visitor", Name: "Shop Visitor", Description: "Visit 5 local shops", Icon: "fa-store", Color: "green", Category: models.CategoryShopping, Rarity: models.RarityCommon},
	{ID: "badge_shop_collector", Name: "Collector", Description: "Visit 10 local shops", Icon: "fa-shopping-bag", Color: "green", Category: models.CategoryShopping, Rarity: models.RarityRare},
	{ID: "badge_shop_patron", Name: "Shop Patron", Description: "Visit every local shop", Icon: "fa-gem", Color: "cyan", Category: models.CategoryShopping, Rarity: models.RarityLegendary},

	{ID: "badge_checkin_10", Name: "Neon Rookie", Description: "Complete 10 check-ins", Icon: "fa-star", Color: "cyan", Rarity: models.RarityCommon},
	{ID: "badge_checkin_25", Name: "Retro Player", Description: "Complete 25 check-ins", Icon: "fa-certificate", Color: "purple", Rarity: models.RarityRare},
	{ID: "badge_checkin_50", Name: "Adventure King", Description: "Complete 50 check-ins", Icon: "fa-trophy", Color: "pink", Rarity: models.RarityEpic},
	{ID: "badge_checkin_100", Name: "80s Legend", Description: "Complete 100 check-ins", Icon: "fa-medal", Color: "purple", Rarity: models.RarityLegendary},

	{ID: "badge_level_5", Name: "Neon Apprentice", Description: "Reach level 5", Icon: "fa-user-graduate", Color: "cyan", Rarity: models.RarityCommon},
	{ID: "badge_level_10", Name: "Retro Master", Description: "Reach level 10", Icon: "fa-user-ninja", Color: "purple", Rarity: models.RarityRare},
	{ID: "badge_level_20", Name: "Lord of Time", Description: "Reach level 20", Icon: "fa-user-crown", Color: "pink", Rarity: models.RarityEpic},

	{ID: "badge_completionist", Name: "Completionist", Description: "Visit every location", Icon: "fa-check-circle", Color: "pink", Rarity: models.RarityLegendary},
	{ID: "badge_early_bird", Name: "Early Bird", Description: "Check in before 8 am", Icon: "fa-sun", Color: "cyan", Rarity: models.RarityRare},
	{ID: "badge_night_owl", Name: "Night Owl", Description: "Check in after 10 pm", Icon: "fa-moon", Color: "purple", Rarity: models.RarityRare},
	{ID: "badge_weekend_warrior", Name: "Weekend Warrior", Description: "Complete 10 check-ins on weekends", Icon: "fa-calendar-weekend", Color: "pink", Rarity: models.RarityRare},
	{ID: "badge_photo_enthusiast", Name: "Photo Enthusiast", Description: "Upload 20 check-in photos", Icon: "fa-camera-retro", Color: "cyan", Rarity: models.RarityEpic},
}

// AchievementCatalog lists the stat driven milestones. The id prefix selects the stat.
var AchievementCatalog = []models.Achievement{
	{ID: "checkin_first", Name: "First Step", Description: "Complete your first check-in", Icon: "fa-walking", Target: 1, Rewards: models.Reward{Exp: 50, Badges: []string{"badge_first_checkin"}}},
	{ID: "checkin_10", Name: "Perfect Ten", Description: "Complete 10 check-ins", Icon: "fa-map-marker-alt", Target: 10, Rewards: models.Reward{Exp: 100, Badges: []string{"badge_checkin_10"}}},
	{ID: "checkin_25", Name: "Silver Journey", Description: "Complete 25 check-ins", Icon: "fa-route", Target: 25, Rewards: models.Reward{Exp: 250, Badges: []string{"badge_checkin_25"}}},
	{ID: "checkin_50", Name: "Golden Adventure", Description: "Complete 50 check-ins", Icon: "fa-compass", Target: 50, Rewards: models.Reward{Exp: 500, Badges: []string{"badge_checkin_50"}}},
	{ID: "checkin_100", Name: "Legendary Explorer", Description: "Complete 100 check-ins", Icon: "fa-globe", Target: 100, Rewards: models.Reward{Exp: 1000, Badges: []string{"badge_checkin_100"}}},

	{ID: "food_5", Name: "First Taste", Description: "Visit 5 food spots", Icon: "fa-utensils", Target: 5, Rewards: models.Reward{Exp: 100, Badges: []string{"badge_food_explorer"}}},
	{ID: "food_10", Name: "Connoisseur", Description: "Visit 10 food spots", Icon: "fa-hamburger", Target: 10, Rewards: models.Reward{Exp: 200, Badges: []string{"badge_food_master"}}},

	{ID: "culture_5", Name: "Cultural Trip", Description: "Visit 5 cultural sites", Icon: "fa-landmark", Target: 5, Rewards: models.Reward{Exp: 100, Badges: []string{"badge_culture_seeker"}}},
	{ID: "culture_10", Name: "Culture Buff", Description: "Visit 10 cultural sites", Icon: "fa-book", Target: 10, Rewards: models.Reward{Exp: 200, Badges: []string{"badge_culture_scholar"}}},

	{ID: "shopping_5", Name: "Window Shopper", Description: "Visit 5 local shops", Icon: "fa-store", Target: 5, Rewards: models.Reward{Exp: 100, Badges: []string{"badge_shop_visitor"}}},
	{ID: "shopping_10", Name: "Shopaholic", Description: "Visit 10 local shops", Icon: "fa-shopping-bag", Target: 10, Rewards: models.Reward{Exp: 200, Badges: []string{"badge_shop_collector"}}},

	{ID: "level_5", Name: "Rising Star", Description: "Reach level 5", Icon: "fa-star", Target: 5, Rewards: models.Reward{Exp: 150, Badges: []string{"badge_level_5"}}},
	{ID: "level_10", Name: "Veteran", Description: "Reach level 10", Icon: "fa-star-half-alt", Target: 10, Rewards: models.Reward{Exp: 300, Badges: []string{"badge_level_10"}}},
	{ID: "level_20", Name: "Time Master", Description: "Reach level 20", Icon: "fa-crown", Target: 20, Rewards: models.Reward{Exp: 500, Badges: []string{"badge_level_20"}}},

	{ID: "all_categories", Name: "All-Rounder", Description: "Visit at least one food, culture and shopping location", Icon: "fa-layer-group", Target: 3, Rewards: models.Reward{Exp: 200}},
	{ID: "photo_20", Name: "Photo Master", Description: "Upload 20 check-in photos", Icon: "fa-camera-retro", Target: 20, Rewards: models.Reward{Exp: 300, Badges: []string{"badge_photo_enthusiast"}}},
}

// QuestCatalog lists the persistent quests.
var QuestCatalog = []models.Quest{
	{ID: "quest_welcome", Title: "Welcome to Douliu", Description: "Complete your first check-in", Type: models.QuestVisit, Difficulty: models.DifficultyEasy,
		Requirements: []models.Requirement{{Type: "checkin", Target: 1}}, Rewards: models.Reward{Exp: 50, Badges: []string{"badge_newbie"}}},
	{ID: "quest_explorer", Title: "Explorer's Path", Description: "Visit 5 different locations", Type: models.QuestExplore, Difficulty: models.DifficultyEasy,
		Requirements: []models.Requirement{{Type: "unique_locations", Target: 5}}, Rewards: models.Reward{Exp: 100}},
	{ID: "quest_foodie_start", Title: "Food Trip", Description: "Visit 3 food spots", Category: models.CategoryFood, Type: models.QuestVisit, Difficulty: models.DifficultyEasy,
		Requirements: []models.Requirement{{Type: "food_visits", Target: 3}}, Rewards: models.Reward{Exp: 80}},
	{ID: "quest_foodie_master", Title: "Food Master", Description: "Visit every food spot", Category: models.CategoryFood, Type: models.QuestCollect, Difficulty: models.DifficultyHard,
		Requirements: []models.Requirement{{Type: "food_visits", Target: 15}}, Rewards: models.Reward{Exp: 500, Badges: []string{"badge_food_legend"}}},
	{ID: "quest_culture_start", Title: "Heritage Walk", Description: "Visit 3 cultural sites", Category: models.CategoryCulture, Type: models.QuestVisit, Difficulty: models.DifficultyEasy,
		Requirements: []models.Requirement{{Type: "culture_visits", Target: 3}}, Rewards: models.Reward{Exp: 80}},
	{ID: "quest_culture_guardian", Title: "Culture Guardian", Description: "Visit every cultural site", Category: models.CategoryCulture, Type: models.QuestCollect, Difficulty: models.DifficultyHard,
		Requirements: []models.Requirement{{Type: "culture_visits", Target: 10}}, Rewards: models.Reward{Exp: 400, Badges: []string{"badge_culture_guardian"}}},
	{ID: "quest_shopping_start", Title: "Shop Hop", Description: "Visit 3 local shops", Category: models.CategoryShopping, Type: models.QuestVisit, Difficulty: models.DifficultyEasy,
		Requirements: []models.Requirement{{Type: "shopping_visits", Target: 3}}, Rewards: models.Reward{Exp: 80}},
	{ID: "quest_shopping_patron", Title: "Shop Patron", Description: "Visit every local shop", Category: models.CategoryShopping, Type: models.QuestCollect, Difficulty: models.DifficultyHard,
		Requirements: []models.Requirement{{Type: "shopping_visits", Target: 12}}, Rewards: models.Reward{Exp: 450, Badges: []string{"badge_shop_patron"}}},
	{ID: "quest_completionist", Title: "Completionist", Description: "Visit every location", Type: models.QuestChallenge, Difficulty: models.DifficultyHard,
		Requirements: []models.Requirement{{Type: "unique_locations", Target: 37}}, Rewards: models.Reward{Exp: 1000, Badges: []string{"badge_completionist"}}},
	{ID: "quest_level_10", Title: "Seasoned Explorer", Description: "Reach level 10", Type: models.QuestChallenge, Difficulty: models.DifficultyMedium,
		Requirements: []models.Requirement{{Type: "level", Target: 10}}, Rewards: models.Reward{Exp: 200}},
}

// DailyQuestTemplates is the pool daily quests are drawn from.
var DailyQuestTemplates = []models.Quest{
	{ID: "daily_checkin_1", Title: "Today's Outing", Description: "Complete 1 check-in", Type: models.QuestVisit, Difficulty: models.DifficultyEasy,
		Requirements: []models.Requirement{{Type: "daily_checkins", Target: 1}}, Rewards: models.Reward{Exp: 30}},
	{ID: "daily_checkin_3", Title: "Exploration Fever", Description: "Complete 3 check-ins", Type: models.QuestVisit, Difficulty: models.DifficultyMedium,
		Requirements: []models.Requirement{{Type: "daily_checkins", Target: 3}}, Rewards: models.Reward{Exp: 100}},
	{ID: "daily_food", Title: "Food Stop", Description: "Visit 1 food spot", Category: models.CategoryFood, Type: models.QuestVisit, Difficulty: models.DifficultyEasy,
		Requirements: []models.Requirement{{Type: "daily_food", Target: 1}}, Rewards: models.Reward{Exp: 40}},
	{ID: "daily_culture", Title: "Culture Stop", Description: "Visit 1 cultural site", Category: models.CategoryCulture, Type: models.QuestVisit, Difficulty: models.DifficultyEasy,
		Requirements: []models.Requirement{{Type: "daily_culture", Target: 1}}, Rewards: models.Reward{Exp: 40}},
	{ID: "daily_shopping", Title: "Shop Stop", Description: "Visit 1 local shop", Category: models.CategoryShopping, Type: models.QuestVisit, Difficulty: models.DifficultyEasy,
		Requirements: []models.Requirement{{Type: "daily_shopping", Target: 1}}, Rewards: models.Reward{Exp: 40}},
	{ID: "daily_diverse", Title: "Mix It Up", Description: "Visit locations in 2 different categories", Type: models.QuestExplore, Difficulty: models.DifficultyMedium,
		Requirements: []models.Requirement{{Type: "daily_diverse", Target: 2}}, Rewards: models.Reward{Exp: 80}},
	{ID: "daily_photo", Title: "Photographer of the Day", Description: "Upload 3 check-in photos", Type: models.QuestCollect, Difficulty: models.DifficultyMedium,
		Requirements: []models.Requirement{{Type: "daily_photos", Target: 3}}, Rewards: models.Reward{Exp: 60}},
}

// CouponOffer is a catalog coupon; the expiry is stamped as unlock time plus ValidFor.
type CouponOffer struct {
	models.Coupon
	ValidFor time.Duration
}

const day = 24 * time.Hour

// CouponCatalog lists every coupon a player can unlock.
var CouponCatalog = []CouponOffer{
	{Coupon: models.Coupon{ID: "coupon_welcome", Title: "Welcome Pack", Description: "5% off everywhere, welcome to Douliu", Discount: "5% off",
		RequiredLevel: 1, RequiredCheckIns: 1, Code: "WELCOME2024"}, ValidFor: 30 * day},
	{Coupon: models.Coupon{ID: "coupon_food_lover", Title: "Food Lover", Description: "10% off at food spots", Discount: "10% off", Category: models.CategoryFood,
		RequiredLevel: 5, RequiredBadges: []string{"badge_food_explorer"}, Code: "FOOD90"}, ValidFor: 60 * day},
	{Coupon: models.Coupon{ID: "coupon_culture", Title: "Culture Explorer", Description: "20% off cultural site tickets", Discount: "20% off", Category: models.CategoryCulture,
		RequiredLevel: 10, RequiredBadges: []string{"badge_culture_scholar"}, Code: "CULTURE80"}, ValidFor: 90 * day},
	{Coupon: models.Coupon{ID: "coupon_shopping", Title: "Shopping Pro", Description: "Spend 500, get 100 back at local shops", Discount: "100 off 500", Category: models.CategoryShopping,
		RequiredLevel: 8, RequiredBadges: []string{"badge_shop_collector"}, Code: "SHOP500"}, ValidFor: 45 * day},
	{Coupon: models.Coupon{ID: "coupon_explorer", Title: "Time Explorer", Description: "15% off across the district", Discount: "15% off",
		RequiredLevel: 15, RequiredCheckIns: 30, Code: "EXPLORER85"}, ValidFor: 90 * day},
	{Coupon: models.Coupon{ID: "coupon_master", Title: "Completionist", Description: "20% off everywhere", Discount: "20% off",
		RequiredLevel: 20, RequiredBadges: []string{"badge_completionist"}, Code: "MASTER80"}, ValidFor: 120 * day},
}

func cloneReward(r models.Reward) models.Reward {
	r.Badges = append([]string(nil), r.Badges...)
	return r
}

func cloneQuest(q models.Quest) models.Quest {
	q.Requirements = append([]models.Requirement(nil), q.Requirements...)
	q.Rewards = cloneReward(q.Rewards)
	return q
}

func initialBadges() []models.Badge {
	return append([]models.Badge(nil), BadgeCatalog...)
}

func initialAchievements() []models.Achievement {
	out := make([]models.Achievement, len(AchievementCatalog))
	for i, a := range AchievementCatalog {
		a.Rewards = cloneReward(a.Rewards)
		out[i] = a
	}
	return out
}

func initialQuests() []models.Quest {
	out := make([]models.Quest, len(QuestCatalog))
	for i, q := range QuestCatalog {
		q = cloneQuest(q)
		q.Status = models.QuestAvailable
		out[i] = q
	}
	return out
}
