package models

import "time"

// Record is a stored data point available for analysis
type Record struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Value     float64   `db:"value" json:"value"`
	Score     float64   `db:"score" json:"score"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RecordSummary holds aggregate figures over the records table
type RecordSummary struct {
	Count    int64   `db:"count" json:"count"`
	AvgValue float64 `db:"avg_value" json:"avg_value"`
	MinValue float64 `db:"min_value" json:"min_value"`
	MaxValue float64 `db:"max_value" json:"max_value"`
}
