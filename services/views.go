package services

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yunlin/oldtown/models"
)

// ViewCounter aggregates content item views per day in the content_views table.
type ViewCounter struct {
	db  *gorm.DB
	loc *time.Location
}

// NewViewCounter migrates the content_views table and returns the counter.
func NewViewCounter(db *gorm.DB, loc *time.Location) (*ViewCounter, error) {
	if err := db.AutoMigrate(&models.ContentView{}); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.Local
	}
	return &ViewCounter{db: db, loc: loc}, nil
}

func (v *ViewCounter) day(t time.Time) time.Time {
	t = t.In(v.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, v.loc)
}

// Record adds one view for the item on the day of at.
func (v *ViewCounter) Record(ctx context.Context, category models.Category, itemID string, at time.Time) error {
	return v.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "category"}, {Name: "item_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1"), "updated_at": at}),
	}).Create(&models.ContentView{Date: v.day(at), Category: string(category), ItemID: itemID, Count: 1}).Error
}

// DayTotals returns the views of the day of at, per category.
func (v *ViewCounter) DayTotals(ctx context.Context, at time.Time) (map[models.Category]int64, error) {
	type row struct {
		Category string
		Total    int64
	}
	var rows []row
	err := v.db.WithContext(ctx).Model(&models.ContentView{}).
		Select("category, COALESCE(SUM(count),0) AS total").
		Where("date = ?", v.day(at)).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	totals := make(map[models.Category]int64, len(models.Categories))
	for _, c := range models.Categories {
		totals[c] = 0
	}
	for _, r := range rows {
		totals[models.Category(r.Category)] = r.Total
	}
	return totals, nil
}

// ItemTotal returns all time views of one item.
func (v *ViewCounter) ItemTotal(ctx context.Context, category models.Category, itemID string) (int64, error) {
	var total int64
	err := v.db.WithContext(ctx).Model(&models.ContentView{}).
		Where("category = ? AND item_id = ?", string(category), itemID).
		Select("COALESCE(SUM(count),0)").
		Scan(&total).Error
	return total, err
}

// Prune deletes rows for days before the day of before.
func (v *ViewCounter) Prune(ctx context.Context, before time.Time) (int64, error) {
	res := v.db.WithContext(ctx).Where("date < ?", v.day(before)).Delete(&models.ContentView{})
	return res.RowsAffected, res.Error
}
