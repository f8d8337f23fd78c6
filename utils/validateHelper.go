package utils

import (
	"context"
	"reflect"

	"github.com/mmdatafocus/partner_backend/config"
)

// check if a row matching cond exists, return RecordNotFound error otherwise
func ValidateResourceExists[T any](ctx context.Context, cond string, values ...interface{}) error {
	count, err := ResourceCountWhere[T](ctx, cond, values...)
	if err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}
	return nil
}

func ResourceCountWhere[T any](ctx context.Context, cond string, values ...interface{}) (int64, error) {
	var model T
	var count int64
	db := config.GetDB()
	err := db.WithContext(ctx).Model(&model).
		Where(cond, values...).
		Count(&count).Error
	return count, err
}

// ValidateUnique fails when another row already holds value in column.
// exceptId excludes the row being updated.
func ValidateUnique[T any](ctx context.Context, column string, value interface{}, exceptId interface{}) error {
	var model T
	var count int64
	db := config.GetDB().WithContext(ctx).Model(&model).
		Where(column+" = ?", value)
	if !reflect.ValueOf(exceptId).IsZero() {
		db = db.Where("id != ?", exceptId)
	}
	if err := db.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrorDuplicateRecord
	}
	return nil
}
