package dashboard

import (
	"github.com/google/uuid"

	"github.com/buildtrack/buildtrack/internal/shared"
)

// TaskFact is one task with its latest reported percentage.
type TaskFact struct {
	Status      string
	Percent     float64
	HasProgress bool
}

// ProjectFacts is the raw data earned value is derived from.
type ProjectFacts struct {
	ProjectID     uuid.UUID
	Name          string
	Status        string
	Budget        float64
	Tasks         []TaskFact
	PlannedToDate float64
	ActualCost    float64
}

// Metrics is the earned value picture of one project.
type Metrics struct {
	ProjectID       uuid.UUID      `json:"project_id"`
	Name            string         `json:"name"`
	Status          string         `json:"status"`
	BAC             float64        `json:"bac"`
	PercentComplete float64        `json:"percent_complete"`
	EV              float64        `json:"ev"`
	PV              float64        `json:"pv"`
	AC              float64        `json:"ac"`
	CV              float64        `json:"cv"`
	SV              float64        `json:"sv"`
	CPI             float64        `json:"cpi"`
	SPI             float64        `json:"spi"`
	TaskCounts      map[string]int `json:"task_counts"`
}

// Totals aggregates earned value across the portfolio.
type Totals struct {
	Projects int     `json:"projects"`
	Tasks    int     `json:"tasks"`
	BAC      float64 `json:"bac"`
	EV       float64 `json:"ev"`
	PV       float64 `json:"pv"`
	AC       float64 `json:"ac"`
	CV       float64 `json:"cv"`
	SV       float64 `json:"sv"`
	CPI      float64 `json:"cpi"`
	SPI      float64 `json:"spi"`
}

// Summary is the portfolio dashboard.
type Summary struct {
	AsOf     shared.Date `json:"as_of"`
	Totals   Totals      `json:"totals"`
	Projects []Metrics   `json:"projects"`
}

// ProjectView is the dashboard of a single project.
type ProjectView struct {
	AsOf shared.Date `json:"as_of"`
	Metrics
}
