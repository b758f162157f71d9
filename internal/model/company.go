package model

import "errors"

// Sector identifies a Level2 entity.
type Sector string

const (
	SectorBanking       Sector = "BANKING"
	SectorRealEstate    Sector = "REALESTATE"
	SectorManufacturing Sector = "MANUFACTURING"
	SectorSemiconductor Sector = "SEMICONDUCTOR"
	SectorCrypto        Sector = "CRYPTO"
	SectorTechnology    Sector = "TECHNOLOGY"
)

// Financials are baseline figures in the company's reporting currency (millions).
type Financials struct {
	Revenue   float64 `json:"revenue" yaml:"revenue"`
	NetIncome float64 `json:"net_income" yaml:"net_income"`
	EBITDA    float64 `json:"ebitda,omitempty" yaml:"ebitda"`
	Equity    float64 `json:"equity" yaml:"equity"`
	MarketCap float64 `json:"market_cap" yaml:"market_cap"`
}

// Company is one Level3 input record.
type Company struct {
	ID         string     `json:"id" yaml:"id"`
	Ticker     string     `json:"ticker" yaml:"ticker"`
	Name       string     `json:"name" yaml:"name"`
	Sector     Sector     `json:"sector" yaml:"sector"`
	Country    string     `json:"country,omitempty" yaml:"country"`
	Financials Financials `json:"financials" yaml:"financials"`
	// Beta scales the sector impact for this company. Zero means 1.0.
	Beta float64 `json:"beta,omitempty" yaml:"beta"`
}

func (c Company) Validate() error {
	if c.Ticker == "" {
		return errors.New("ticker is required")
	}
	if c.Sector == "" {
		return errors.New("sector is required")
	}
	if c.Financials.Revenue < 0 {
		return errors.New("revenue must be >= 0")
	}
	if c.Beta < 0 {
		return errors.New("beta must be >= 0")
	}
	return nil
}

// EffectiveBeta returns Beta, defaulting to 1.0.
func (c Company) EffectiveBeta() float64 {
	if c.Beta <= 0 {
		return 1.0
	}
	return c.Beta
}

// BaselineMarketCap falls back to book equity when no market cap is known.
func (c Company) BaselineMarketCap() float64 {
	if c.Financials.MarketCap > 0 {
		return c.Financials.MarketCap
	}
	return c.Financials.Equity
}

// BaselineMargin is EBITDA (or net income) over revenue; 0 for zero revenue.
func (c Company) BaselineMargin() float64 {
	if c.Financials.Revenue == 0 {
		return 0
	}
	earnings := c.Financials.EBITDA
	if earnings == 0 {
		earnings = c.Financials.NetIncome
	}
	return earnings / c.Financials.Revenue
}

// Shock is the exogenous input to one propagation run.
// Callers must treat it as immutable once handed to the engine.
type Shock struct {
	Level0    Level0     `json:"level0" yaml:"level0"`
	Macro     MacroState `json:"macro" yaml:"macro"`
	Companies []Company  `json:"companies" yaml:"companies"`
}
