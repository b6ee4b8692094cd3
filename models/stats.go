// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// DateLayout is the wire format of stat dates.
const DateLayout = "2006-01-02"

// AgentStats holds the counters of one agent for one UTC day.
// (AgentID, Date) is unique.
type AgentStats struct {
	ID        string    `json:"id"`
	AgentID   string    `json:"agent_id"`
	Date      string    `json:"date"`
	Views     int64     `json:"views"`
	Downloads int64     `json:"downloads"`
	APICalls  int64     `json:"api_calls"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SchemaVersion int `json:"-"`
}

// TableName returns the name of the database table
// associated with the AgentStats model.
func (s AgentStats) TableName() string {
	return "agent_stats"
}

// AgentStatsUpsert sets the counters of a day. An empty Date means today.
type AgentStatsUpsert struct {
	Date      string `json:"date,omitempty"`
	Views     int64  `json:"views"`
	Downloads int64  `json:"downloads"`
	APICalls  int64  `json:"api_calls"`
}

// DateRange is an inclusive range of stat dates; empty bounds are open.
type DateRange struct {
	Start string
	End   string
}

// StatsSummary aggregates counters over every agent.
type StatsSummary struct {
	TotalViews        int64  `json:"total_views"`
	TotalDownloads    int64  `json:"total_downloads"`
	TotalAPICalls     int64  `json:"total_api_calls"`
	UniqueAgentsCount int64  `json:"unique_agents_count"`
	StartDate         string `json:"start_date,omitempty"`
	EndDate           string `json:"end_date,omitempty"`
}
