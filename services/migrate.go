package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/yunlin/oldtown/models"
)

// CurrentSchemaVersion is the shape every progress document is migrated to at load.
const CurrentSchemaVersion = 1

// migrations[v] upgrades a raw document from version v to v+1.
var migrations = map[int]func(doc map[string]any){
	0: migrateLegacyBlob,
}

// decodeProgress applies pending migrations to raw and decodes it.
// migrated reports whether the stored shape changed and should be written back.
func decodeProgress(raw []byte) (p *models.UserProgress, migrated bool, err error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false, fmt.Errorf("decode progress: %w", err)
	}

	version := 0
	if v, ok := doc["schema_version"].(float64); ok {
		version = int(v)
	}
	if version > CurrentSchemaVersion {
		return nil, false, fmt.Errorf("progress schema version %d is newer than supported %d", version, CurrentSchemaVersion)
	}
	for version < CurrentSchemaVersion {
		migrate, ok := migrations[version]
		if !ok {
			return nil, false, fmt.Errorf("no migration from progress schema version %d", version)
		}
		migrate(doc)
		version++
		doc["schema_version"] = version
		migrated = true
	}

	if migrated {
		if raw, err = json.Marshal(doc); err != nil {
			return nil, false, err
		}
	}
	p = &models.UserProgress{}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, false, fmt.Errorf("decode progress: %w", err)
	}
	return p, migrated, nil
}

// migrateLegacyBlob converts the camelCase browser storage shape and fills fields it never had.
func migrateLegacyBlob(doc map[string]any) {
	snakeKeys(doc)
	if _, ok := doc["preferences"]; !ok {
		doc["preferences"] = map[string]any{"notifications": true}
	}
}

func snakeKeys(v any) {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			snakeKeys(child)
			if sk := toSnake(k); sk != k {
				delete(t, k)
				if _, exists := t[sk]; !exists {
					t[sk] = child
				}
			}
		}
	case []any:
		for _, child := range t {
			snakeKeys(child)
		}
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// normalize repairs invariants and adds catalog entries the document does not know yet.
func (g *GameService) normalize(p *models.UserProgress) {
	// the level curve is ours, never the document's
	p.Level = min(max(p.Level, 1), MaxLevel)
	p.ExpToNextLevel = g.expToNextLevel(p.Level)
	p.Exp = min(max(p.Exp, 0), maxExp)
	g.addExp(p, 0)
	if p.CheckIns == nil {
		p.CheckIns = []models.CheckIn{}
	}
	if p.DailyQuests == nil {
		p.DailyQuests = []models.DailyQuest{}
	}
	if p.DailyStats.Categories == nil {
		p.DailyStats.Categories = []models.Category{}
	}

	haveBadge := make(map[string]bool, len(p.Badges))
	for _, b := range p.Badges {
		haveBadge[b.ID] = true
	}
	for _, b := range BadgeCatalog {
		if !haveBadge[b.ID] {
			p.Badges = append(p.Badges, b)
		}
	}

	haveAch := make(map[string]bool, len(p.Achievements))
	for _, a := range p.Achievements {
		haveAch[a.ID] = true
	}
	for _, a := range initialAchievements() {
		if !haveAch[a.ID] {
			p.Achievements = append(p.Achievements, a)
		}
	}

	haveQuest := make(map[string]bool, len(p.Quests))
	for _, q := range p.Quests {
		haveQuest[q.ID] = true
	}
	for _, q := range initialQuests() {
		if !haveQuest[q.ID] {
			p.Quests = append(p.Quests, q)
		}
	}
}
