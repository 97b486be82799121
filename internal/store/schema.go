package store

import (
	"context"
	"fmt"
	"strings"
)

type requiredColumn struct {
	table  string
	column string
}

var requiredColumns = []requiredColumn{
	{table: "User", column: "email"},
	{table: "User", column: "firstName"},
	{table: "User", column: "lastName"},
	{table: "MoodEntry", column: "userId"},
	{table: "MoodEntry", column: "entryDate"},
	{table: "MoodEntry", column: "moodScore"},
	{table: "MoodEntry", column: "note"},
	{table: "AiAnalysis", column: "userId"},
	{table: "AiAnalysis", column: "averageMood"},
	{table: "AiAnalysis", column: "summary"},
	{table: "AiAnalysis", column: "suggestions"},
	{table: "AiAnalysis", column: "createdAt"},
}

// ValidateSchema fails fast when a column the repositories depend on is missing.
func ValidateSchema(ctx context.Context, db dbQuerier) error {
	if db == nil {
		return fmt.Errorf("database pool is nil")
	}
	for _, item := range requiredColumns {
		ok, err := columnExists(ctx, db, item.table, item.column)
		if err != nil {
			return fmt.Errorf("failed checking schema for %s.%s: %w", item.table, item.column, err)
		}
		if !ok {
			return fmt.Errorf("required column %s.%s is missing; apply the database migrations first", item.table, item.column)
		}
	}
	return nil
}

func columnExists(ctx context.Context, db dbQuerier, tableName, columnName string) (bool, error) {
	table := strings.TrimSpace(tableName)
	column := strings.TrimSpace(columnName)
	if table == "" || column == "" {
		return false, fmt.Errorf("table/column must not be empty")
	}
	var exists bool
	err := db.QueryRow(
		ctx,
		`SELECT EXISTS (
		   SELECT 1
		   FROM information_schema.columns
		   WHERE table_schema = current_schema()
		     AND table_name = $1
		     AND column_name = $2
		 )`,
		table,
		column,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
