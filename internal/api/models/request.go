package models

import "impact-engine/internal/model"

// PropagateRequest is the body of POST /api/v1/propagate. Scenario, when
// set, is the base shock; Level0 and Macro are overlaid on top of it.
type PropagateRequest struct {
	Scenario  string           `json:"scenario,omitempty"`
	Level0    model.Level0     `json:"level0"`
	Macro     model.MacroState `json:"macro,omitempty"`
	Companies []model.Company  `json:"companies,omitempty"` // default: built-in universe
}

// FlowsRequest compares two macro snapshots. From/To name scenarios whose
// macro values are overlaid with Previous/Current.
type FlowsRequest struct {
	From      string           `json:"from,omitempty"`
	To        string           `json:"to,omitempty"`
	Previous  model.MacroState `json:"previous,omitempty"`
	Current   model.MacroState `json:"current,omitempty"`
	Level0    model.Level0     `json:"level0"`
	Companies []model.Company  `json:"companies,omitempty"`
}

// SimulateRequest adds diffusion parameters to a FlowsRequest.
// Zero parameters take the server defaults.
type SimulateRequest struct {
	FlowsRequest
	Steps         int     `json:"steps,omitempty"`
	DampingFactor float64 `json:"damping_factor,omitempty"`
	Epsilon       float64 `json:"epsilon,omitempty"`
}

// RankRequest is the query of GET /api/v1/rank
type RankRequest struct {
	Scenario string `form:"scenario" binding:"required"`
	Limit    int    `form:"limit,omitempty"` // default: all
}

// MacroVariablesRequest is the query of GET /api/v1/macro-variables
type MacroVariablesRequest struct {
	Category string `form:"category,omitempty"`
}
