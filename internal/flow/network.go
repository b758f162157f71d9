package flow

import (
	"sync"

	"impact-engine/internal/data"
	"impact-engine/internal/impact"
	"impact-engine/internal/model"
)

// NodeInfo is the authoritative type and hierarchy level of one entity.
type NodeInfo struct {
	Type  model.NodeType `json:"type"`
	Level int            `json:"level"`
}

// UnregisteredNode is assigned to names the registry does not know.
var UnregisteredNode = NodeInfo{Type: model.NodeMarket, Level: 5}

// Registry maps entity names to NodeInfo. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	nodes map[string]NodeInfo
}

// NewRegistry returns a registry holding every built-in chain endpoint.
func NewRegistry() *Registry {
	r := &Registry{nodes: map[string]NodeInfo{}}
	for id, info := range defaultNodes {
		r.nodes[id] = info
	}
	return r
}

var defaultNodes = map[string]NodeInfo{
	FederalReserve:     {Type: model.NodeCentralBank, Level: 0},
	GDPGrowth:          {Type: model.NodeGovernment, Level: 0},
	BankingSector:      {Type: model.NodeBank, Level: 1},
	MoneySupply:        {Type: model.NodeCentralBank, Level: 1},
	TechnologySector:   {Type: model.NodeCompany, Level: 1},
	SemiconductorIndus: {Type: model.NodeCompany, Level: 1},
	CorporateSector:    {Type: model.NodeCompany, Level: 2},
	CorporateEarnings:  {Type: model.NodeCompany, Level: 2},
	ConsumerSector:     {Type: model.NodeConsumer, Level: 7},
	Employment:         {Type: model.NodeConsumer, Level: 7},
	MarketVolatility:   {Type: model.NodeMarket, Level: 8},
	RiskAssets:         {Type: model.NodeMarket, Level: 8},
	SafeHavens:         {Type: model.NodeMarket, Level: 8},
	EquityMarkets:      {Type: model.NodeMarket, Level: 8},
	CryptoMarkets:      {Type: model.NodeMarket, Level: 8},
	RealEstate:         {Type: model.NodeMarket, Level: 8},
}

func (r *Registry) Register(id string, info NodeInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes[id] = info
}

// Lookup returns the registered info, or UnregisteredNode.
func (r *Registry) Lookup(id string) (NodeInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.nodes[id]
	if !ok {
		return UnregisteredNode, false
	}
	return info, true
}

// Build aggregates flows into a network. Nodes appear in order of first
// mention; edges keep flow order.
func (r *Registry) Build(flows []model.EconomicFlow) model.FlowNetwork {
	net := model.FlowNetwork{
		Nodes: []model.FlowNode{},
		Edges: make([]model.FlowEdge, 0, len(flows)),
	}
	index := map[string]int{}
	node := func(id string) *model.FlowNode {
		if i, ok := index[id]; ok {
			return &net.Nodes[i]
		}
		info, _ := r.Lookup(id)
		index[id] = len(net.Nodes)
		net.Nodes = append(net.Nodes, model.FlowNode{ID: id, Type: info.Type, Level: info.Level})
		return &net.Nodes[len(net.Nodes)-1]
	}

	for _, f := range flows {
		node(f.From).Outflows += f.Magnitude
		node(f.To).Inflows += f.Magnitude
		net.Edges = append(net.Edges, model.FlowEdge{
			From:   f.From,
			To:     f.To,
			Weight: f.Magnitude,
			Color:  impact.FlowColor(f.Impact),
			Impact: f.Impact,
		})
	}
	for i := range net.Nodes {
		n := &net.Nodes[i]
		n.NetFlow = n.Inflows - n.Outflows
		n.Velocity = safeDiv(n.Outflows, n.Inflows)
	}
	return net
}

// Indicators reads nominal GDP, M2 and the reserve ratio from m, falling
// back to catalog defaults.
func Indicators(m model.MacroState, c data.Catalog) model.FlowIndicators {
	get := func(id string) float64 { return m.Get(id, c.Default(id)) }
	return model.FlowIndicators{
		MoneyVelocity:    MoneyVelocity(get(model.VarNominalGDP), get(model.VarM2MoneySupply)),
		CreditMultiplier: CreditMultiplier(get(model.VarReserveRatio)),
	}
}

// MoneyVelocity is nominal GDP over money stock; 0 when m2 is 0.
func MoneyVelocity(gdp, m2 float64) float64 {
	return safeDiv(gdp, m2)
}

// CreditMultiplier is 1/reserveRatio; 0 when the ratio is 0.
func CreditMultiplier(reserveRatio float64) float64 {
	return safeDiv(1, reserveRatio)
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
