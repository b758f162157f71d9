package models

import (
	"impact-engine/internal/analysis"
	"impact-engine/internal/config"
	"impact-engine/internal/model"
)

// PropagateResponse is the nine-level state plus derived views of it.
type PropagateResponse struct {
	State    model.PropagationState   `json:"state"`
	Counts   map[string]int           `json:"counts"`
	Rankings []Ranking                `json:"rankings"`
	Sectors  []analysis.SectorSummary `json:"sectors"`
}

// Ranking is one ranked company.
type Ranking struct {
	Rank int `json:"rank"`
	analysis.CompanyImpact
}

type RankResponse struct {
	Scenario string    `json:"scenario"`
	Rankings []Ranking `json:"rankings"`
}

// FlowsResponse contains derived flows and the network built from them.
type FlowsResponse struct {
	Flows   []model.EconomicFlow `json:"flows"`
	Lines   []string             `json:"lines"`
	Network    model.FlowNetwork    `json:"network"`
	Indicators model.FlowIndicators `json:"indicators"`
	Summary    analysis.FlowSummary `json:"summary"`
}

// SimulateResponse is a full run: both snapshots, flows, and the diffusion timeline.
type SimulateResponse struct {
	Baseline model.PropagationState  `json:"baseline"`
	State    model.PropagationState  `json:"state"`
	Flows    FlowsResponse           `json:"flows"`
	Timeline []model.FlowPropagation `json:"timeline"`
	Report   []string                `json:"report"`
}

type ScenarioListResponse struct {
	Scenarios []config.Scenario `json:"scenarios"`
}

type MacroVariablesResponse struct {
	Variables []model.MacroVariable `json:"variables"`
}

// CacheClearResponse reports how many cached results were dropped.
type CacheClearResponse struct {
	Cleared int `json:"cleared"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
