package model

import "time"

// FlowType classifies the transmission channel of a flow.
type FlowType string

const (
	FlowMonetary   FlowType = "monetary"
	FlowCredit     FlowType = "credit"
	FlowTrade      FlowType = "trade"
	FlowInvestment FlowType = "investment"
	FlowPolicy     FlowType = "policy"
)

// FlowPayload is the channel-specific data carried by a flow.
// The set of implementations is closed; switch on the concrete type.
type FlowPayload interface {
	FlowType() FlowType
	flowPayload()
}

// PolicyPayload: a policy rate move, in basis points.
type PolicyPayload struct {
	RateDeltaBps float64 `json:"rate_delta_bps"`
}

// CreditPayload: the lending-rate move passed through by banks, in basis points.
type CreditPayload struct {
	LendingRateDeltaBps float64 `json:"lending_rate_delta_bps"`
}

// MonetaryPayload: the relative money supply change, in percent.
type MonetaryPayload struct {
	SupplyChangePct float64 `json:"supply_change_pct"`
}

// TradePayload: the scaled growth or cost delta driving real activity.
type TradePayload struct {
	GrowthDelta float64 `json:"growth_delta"`
}

// InvestmentPayload: the asset-allocation driver and its scaled change.
type InvestmentPayload struct {
	Driver       string  `json:"driver"`
	DriverChange float64 `json:"driver_change"`
}

func (PolicyPayload) FlowType() FlowType     { return FlowPolicy }
func (CreditPayload) FlowType() FlowType     { return FlowCredit }
func (MonetaryPayload) FlowType() FlowType   { return FlowMonetary }
func (TradePayload) FlowType() FlowType      { return FlowTrade }
func (InvestmentPayload) FlowType() FlowType { return FlowInvestment }

func (PolicyPayload) flowPayload()     {}
func (CreditPayload) flowPayload()     {}
func (MonetaryPayload) flowPayload()   {}
func (TradePayload) flowPayload()      {}
func (InvestmentPayload) flowPayload() {}

// EconomicFlow is a directed causal edge produced by a meaningful macro change.
// Flows are values: derive a modified copy instead of mutating one in place.
type EconomicFlow struct {
	ID          string      `json:"id"`
	From        string      `json:"from"`
	To          string      `json:"to"`
	Type        FlowType    `json:"type"`
	Magnitude   float64     `json:"magnitude"`
	Impact      Impact      `json:"impact"`
	Multiplier  float64     `json:"multiplier"`
	Description string      `json:"description"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     FlowPayload `json:"payload,omitempty"`
}

// WithMagnitude returns a copy of f carrying magnitude m.
func (f EconomicFlow) WithMagnitude(m float64) EconomicFlow {
	f.Magnitude = m
	return f
}

// NodeType is the role of an entity in the flow network.
type NodeType string

const (
	NodeCentralBank NodeType = "central-bank"
	NodeBank        NodeType = "bank"
	NodeCompany     NodeType = "company"
	NodeConsumer    NodeType = "consumer"
	NodeMarket      NodeType = "market"
	NodeGovernment  NodeType = "government"
)

// FlowNode aggregates every flow touching one entity.
type FlowNode struct {
	ID       string   `json:"id"`
	Type     NodeType `json:"type"`
	Level    int      `json:"level"`
	Inflows  float64  `json:"inflows"`
	Outflows float64  `json:"outflows"`
	NetFlow  float64  `json:"net_flow"`
	Velocity float64  `json:"velocity"`
}

// FlowEdge is the render-ready form of one flow.
type FlowEdge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
	Color  string  `json:"color"`
	Impact Impact  `json:"impact"`
}

type FlowNetwork struct {
	Nodes []FlowNode `json:"nodes"`
	Edges []FlowEdge `json:"edges"`
}

// FlowIndicators are system-wide money circulation ratios for one snapshot.
type FlowIndicators struct {
	MoneyVelocity    float64 `json:"money_velocity"`
	CreditMultiplier float64 `json:"credit_multiplier"`
}

// NodeState tracks one entity's compounded value during diffusion.
// Value starts at 1.0.
type NodeState struct {
	Value            float64 `json:"value"`
	CumulativeChange float64 `json:"cumulative_change"`
}

// FlowPropagation is one diffusion step.
type FlowPropagation struct {
	Step        int                  `json:"step"`
	Timestamp   time.Time            `json:"timestamp"`
	ActiveFlows []EconomicFlow       `json:"active_flows"`
	NodeStates  map[string]NodeState `json:"node_states"`
}
