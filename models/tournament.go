package models

import (
	"time"
)

// Tournament is a time-boxed survival competition.
// Created and activated by administrators; the elimination engine only reads it.
type Tournament struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name      string    `json:"name" gorm:"not null"`
	StartDate time.Time `json:"start_date" gorm:"not null"`
	EndDate   time.Time `json:"end_date"` // zero = open ended
	IsActive  bool      `json:"is_active" gorm:"default:false;index"`

	Timestamps
}

// Judging reports whether a run at now may still judge the tournament: its window
// extended by grace past EndDate, so the final day can be judged after close.
func (t Tournament) Judging(now time.Time, grace time.Duration) bool {
	if t.Contains(now) {
		return true
	}
	return !t.EndDate.IsZero() && now.After(t.EndDate) && !now.After(t.EndDate.Add(grace))
}

// Contains reports whether now falls inside the tournament's run window.
func (t Tournament) Contains(now time.Time) bool {
	if now.Before(t.StartDate) {
		return false
	}
	if !t.EndDate.IsZero() && now.After(t.EndDate) {
		return false
	}
	return true
}
