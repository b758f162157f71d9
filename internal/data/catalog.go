package data

import "impact-engine/internal/model"

// Catalog is the ordered list of documented macro variables.
type Catalog []model.MacroVariable

// Lookup returns the variable with the given id.
func (c Catalog) Lookup(id string) (model.MacroVariable, bool) {
	for _, v := range c {
		if v.ID == id {
			return v, true
		}
	}
	return model.MacroVariable{}, false
}

// Default returns the documented default for id, or 0 for unknown ids.
func (c Catalog) Default(id string) float64 {
	if v, ok := c.Lookup(id); ok {
		return v.Default
	}
	return 0
}

// Defaults returns a fresh state holding every documented default.
func (c Catalog) Defaults() model.MacroState {
	out := make(model.MacroState, len(c))
	for _, v := range c {
		out[v.ID] = v.Default
	}
	return out
}

// ByCategory groups variables by category, preserving catalog order.
func (c Catalog) ByCategory() map[model.MacroCategory][]model.MacroVariable {
	out := map[model.MacroCategory][]model.MacroVariable{}
	for _, v := range c {
		out[v.Category] = append(out[v.Category], v)
	}
	return out
}

func mv(id, name string, cat model.MacroCategory, unit string, min, max, def, step float64, desc string) model.MacroVariable {
	return model.MacroVariable{
		ID: id, Name: name, Category: cat, Unit: unit,
		Min: min, Max: max, Default: def, Step: step, Description: desc,
	}
}

// DefaultCatalog returns the built-in macro catalog. Policy and market
// rates are decimal fractions (0.0525 = 5.25%); everything else uses its
// natural unit.
func DefaultCatalog() Catalog {
	const (
		mp  = model.CategoryMonetaryPolicy
		liq = model.CategoryLiquidity
		gr  = model.CategoryEconomicGrowth
		fx  = model.CategoryForeignExchange
		com = model.CategoryCommodities
		tl  = model.CategoryTradeLogistics
		ms  = model.CategoryMarketSentiment
		re  = model.CategoryRealEstate
		ti  = model.CategoryTechInnovation
	)
	return Catalog{
		mv("fed_funds_rate", "Fed Funds Rate", mp, "rate", 0, 0.10, 0.0525, 0.0025, "US federal funds target rate"),
		mv("ecb_main_rate", "ECB Main Refinancing Rate", mp, "rate", 0, 0.08, 0.045, 0.0025, "ECB main refinancing operations rate"),
		mv("boj_rate", "BOJ Policy Rate", mp, "rate", -0.01, 0.05, -0.001, 0.001, "Bank of Japan short-term policy rate"),
		mv("bok_rate", "BOK Base Rate", mp, "rate", 0, 0.08, 0.035, 0.0025, "Bank of Korea base rate"),
		mv("pboc_rate", "PBOC Loan Prime Rate", mp, "rate", 0, 0.08, 0.0345, 0.0005, "People's Bank of China 1Y loan prime rate"),
		mv("us_10y_yield", "US 10Y Treasury Yield", mp, "rate", 0, 0.08, 0.045, 0.0005, "10-year Treasury constant maturity yield"),
		mv("us_2y_yield", "US 2Y Treasury Yield", mp, "rate", 0, 0.08, 0.05, 0.0005, "2-year Treasury constant maturity yield"),
		mv("yield_curve", "Yield Curve (10Y-2Y)", mp, "bps", -200, 300, -50, 5, "10Y minus 2Y spread"),
		mv("fed_balance_sheet", "Fed Balance Sheet", mp, "T USD", 4, 10, 7.8, 0.1, "Federal Reserve total assets"),
		mv("ecb_balance_sheet", "ECB Balance Sheet", mp, "T EUR", 4, 10, 6.9, 0.1, "ECB total assets"),

		mv("us_m2_money_supply", "US M2 Money Supply", liq, "T USD", 18, 25, 21.0, 0.1, "US M2 money stock"),
		mv("china_m2", "China M2", liq, "T CNY", 250, 330, 290, 1, "China M2 money supply"),
		mv("eu_m3", "Eurozone M3", liq, "T EUR", 14, 19, 16.5, 0.1, "Eurozone M3 money supply"),
		mv("korea_m2", "Korea M2", liq, "T KRW", 3000, 4000, 3400, 10, "Korea M2 money supply"),
		mv("global_liquidity", "Global Liquidity Index", liq, "index", 80, 130, 105, 1, "Aggregate central bank liquidity"),
		mv("credit_spread_baa", "Baa Credit Spread", liq, "bps", 50, 600, 180, 5, "Moody's Baa corporate over Treasuries"),
		mv("ted_spread", "TED Spread", liq, "bps", 10, 400, 30, 1, "3M interbank minus T-bill"),
		mv("bank_reserve_ratio", "Bank Reserve Ratio", liq, "ratio", 0.01, 0.25, 0.10, 0.005, "Reserves held against deposits"),
		mv("repo_rate", "Repo Rate", liq, "rate", 0, 0.10, 0.053, 0.0005, "Secured overnight financing rate"),
		mv("reverse_repo", "Reverse Repo Usage", liq, "B USD", 0, 2500, 600, 10, "Fed overnight reverse repo facility"),
		mv("margin_debt", "Margin Debt", liq, "B USD", 400, 1000, 700, 10, "FINRA margin debt"),

		mv("us_nominal_gdp", "US Nominal GDP", gr, "T USD", 20, 35, 27.4, 0.1, "Nominal GDP, annualized"),
		mv("us_gdp_growth", "US GDP Growth", gr, "%", -5, 7, 2.5, 0.1, "Real GDP growth, annualized"),
		mv("china_gdp_growth", "China GDP Growth", gr, "%", -2, 10, 5.0, 0.1, "China real GDP growth"),
		mv("eu_gdp_growth", "EU GDP Growth", gr, "%", -5, 5, 1.0, 0.1, "Eurozone real GDP growth"),
		mv("us_unemployment", "US Unemployment Rate", gr, "%", 3, 15, 3.8, 0.1, "Headline unemployment rate"),
		mv("us_cpi", "US CPI Inflation", gr, "%", -2, 10, 3.7, 0.1, "CPI year over year"),
		mv("us_pce", "US Core PCE", gr, "%", -1, 8, 3.4, 0.1, "Core PCE year over year"),
		mv("us_pmi_manufacturing", "US Manufacturing PMI", gr, "index", 30, 70, 48.5, 0.5, "ISM manufacturing PMI"),
		mv("us_pmi_services", "US Services PMI", gr, "index", 30, 70, 52, 0.5, "ISM services PMI"),
		mv("us_retail_sales", "US Retail Sales Growth", gr, "%", -10, 15, 4.0, 0.1, "Retail sales year over year"),
		mv("us_consumer_confidence", "Consumer Confidence", gr, "index", 50, 130, 102, 1, "Conference Board consumer confidence"),

		mv("usd_index", "US Dollar Index", fx, "index", 80, 120, 104.5, 0.5, "DXY"),
		mv("krw_usd", "KRW/USD", fx, "KRW", 900, 1500, 1320, 5, "Won per dollar"),
		mv("eur_usd", "EUR/USD", fx, "USD", 0.9, 1.3, 1.07, 0.01, "Dollars per euro"),
		mv("jpy_usd", "JPY/USD", fx, "JPY", 100, 170, 149, 1, "Yen per dollar"),
		mv("cny_usd", "CNY/USD", fx, "CNY", 6, 8, 7.25, 0.01, "Yuan per dollar"),
		mv("gbp_usd", "GBP/USD", fx, "USD", 1.0, 1.5, 1.23, 0.01, "Dollars per pound"),
		mv("emerging_fx_index", "Emerging FX Index", fx, "index", 70, 110, 90, 1, "EM currency basket"),
		mv("fx_volatility", "FX Volatility", fx, "%", 4, 25, 9, 0.5, "G7 implied FX volatility"),

		mv("wti_oil", "WTI Crude", com, "USD/bbl", 30, 120, 78, 1, "West Texas Intermediate"),
		mv("brent_oil", "Brent Crude", com, "USD/bbl", 30, 130, 82, 1, "Brent crude"),
		mv("natural_gas", "Natural Gas", com, "USD/MMBtu", 1, 10, 2.8, 0.1, "Henry Hub"),
		mv("gold", "Gold", com, "USD/oz", 1500, 3000, 2040, 10, "Spot gold"),
		mv("copper", "Copper", com, "USD/lb", 2, 6, 3.8, 0.05, "COMEX copper"),
		mv("steel", "Steel", com, "USD/t", 400, 1200, 650, 10, "Hot-rolled coil"),
		mv("wheat", "Wheat", com, "USD/bu", 4, 12, 5.8, 0.1, "CBOT wheat"),

		mv("container_rate_us_china", "Container Rate US-China", tl, "USD/FEU", 1000, 10000, 2500, 100, "Trans-Pacific 40ft container rate"),
		mv("baltic_dry_index", "Baltic Dry Index", tl, "index", 500, 5000, 1800, 50, "Dry bulk shipping rates"),
		mv("us_tariff_rate", "US Tariff Rate", tl, "%", 0, 50, 19, 1, "Average US tariff on China imports"),
		mv("china_exports_growth", "China Export Growth", tl, "%", -20, 30, 5, 0.5, "China exports year over year"),
		mv("us_imports_growth", "US Import Growth", tl, "%", -20, 30, 3, 0.5, "US imports year over year"),
		mv("supply_chain_pressure", "Supply Chain Pressure", tl, "std", -1, 4, 0.5, 0.1, "NY Fed GSCPI"),

		mv("vix", "VIX", ms, "index", 10, 80, 15, 0.5, "CBOE volatility index"),
		mv("put_call_ratio", "Put/Call Ratio", ms, "ratio", 0.4, 1.6, 0.85, 0.01, "CBOE equity put/call ratio"),
		mv("aaii_sentiment", "AAII Bullish Sentiment", ms, "%", 15, 65, 38, 1, "AAII bullish share"),
		mv("high_yield_spread", "High Yield Spread", ms, "bps", 250, 1200, 420, 5, "ICE BofA HY OAS"),
		mv("emerging_market_risk", "EM Sovereign Spread", ms, "bps", 200, 800, 350, 5, "EMBI spread"),

		mv("us_home_price_index", "US Home Price Index", re, "index", 200, 400, 310, 1, "Case-Shiller national"),
		mv("us_mortgage_rate_30y", "30Y Mortgage Rate", re, "rate", 0.025, 0.08, 0.072, 0.0005, "Freddie Mac 30-year fixed"),
		mv("commercial_real_estate_index", "Commercial RE Index", re, "index", 80, 160, 125, 1, "Green Street CPPI"),
		mv("cap_rate", "Cap Rate", re, "%", 4, 10, 6.8, 0.1, "Average commercial cap rate"),

		mv("ai_investment", "AI Investment Index", ti, "index", 0, 100, 35, 1, "Global AI capex intensity"),
		mv("semiconductor_equipment_orders", "Semi Equipment Orders", ti, "index", 20, 120, 95, 1, "SEMI equipment billings"),
		mv("cloud_infrastructure_spend", "Cloud Infrastructure Spend", ti, "B USD/qtr", 40, 80, 63, 1, "Quarterly global cloud infra spend"),
	}
}
