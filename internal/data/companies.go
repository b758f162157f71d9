package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"impact-engine/internal/model"
)

// CompanyList is the on-disk company universe.
type CompanyList struct {
	UpdatedAt string          `json:"updated_at"` // ISO 8601 timestamp
	Companies []model.Company `json:"companies"`
}

// LoadCompanies loads and validates a company list from a JSON file.
func LoadCompanies(filePath string) (*CompanyList, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read companies file: %w", err)
	}

	var list CompanyList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to parse companies file: %w", err)
	}
	for i, c := range list.Companies {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("company %d (%s): %w", i, c.Ticker, err)
		}
	}
	return &list, nil
}

// SaveCompanies writes a company list as indented JSON.
func SaveCompanies(list *CompanyList, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal companies: %w", err)
	}

	if err := os.WriteFile(filePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write companies file: %w", err)
	}
	return nil
}

// GetDefaultCompaniesPath returns COMPANIES_FILE, or "" when unset.
func GetDefaultCompaniesPath() string {
	return os.Getenv("COMPANIES_FILE")
}

// ResolveCompanies loads COMPANIES_FILE when set, otherwise the built-in list.
func ResolveCompanies() ([]model.Company, error) {
	path := GetDefaultCompaniesPath()
	if path == "" {
		return DefaultCompanies(), nil
	}
	list, err := LoadCompanies(path)
	if err != nil {
		return nil, err
	}
	return list.Companies, nil
}

func co(ticker, name string, sector model.Sector, country string, rev, ni, ebitda, equity, mcap, beta float64) model.Company {
	return model.Company{
		ID:      ticker,
		Ticker:  ticker,
		Name:    name,
		Sector:  sector,
		Country: country,
		Financials: model.Financials{
			Revenue: rev, NetIncome: ni, EBITDA: ebitda, Equity: equity, MarketCap: mcap,
		},
		Beta: beta,
	}
}

// DefaultCompanies is the built-in company universe. Figures are in millions
// of the reporting currency (KRW hundred-millions for Korean issuers).
func DefaultCompanies() []model.Company {
	return []model.Company{
		co("SHB", "Shinhan Bank", model.SectorBanking, "KR", 150000, 2520, 0, 100000, 0, 0.9),
		co("KBF", "KB Financial", model.SectorBanking, "KR", 130000, 2200, 0, 80000, 0, 0.95),
		co("WRB", "Woori Bank", model.SectorBanking, "KR", 100000, 1800, 0, 20000, 0, 1.0),
		co("HNB", "Hana Bank", model.SectorBanking, "KR", 120000, 2000, 0, 80000, 0, 0.95),
		co("JPM", "JPMorgan Chase", model.SectorBanking, "US", 162400, 49550, 0, 319000, 570000, 1.1),
		co("BAC", "Bank of America", model.SectorBanking, "US", 115000, 26500, 0, 276000, 300000, 1.3),
		co("HSBC", "HSBC", model.SectorBanking, "UK", 65500, 24200, 0, 198000, 160000, 0.8),
		co("IBK", "Industrial Bank of Korea", model.SectorBanking, "KR", 90000, 1500, 0, 40000, 0, 0.85),

		co("SHRE", "Shinhan Alpha REIT", model.SectorRealEstate, "KR", 50, 4.48, 0, 290, 0, 0.7),
		co("IRRE", "E-REITs Kocref", model.SectorRealEstate, "KR", 40, 1.88, 0, 150, 0, 0.75),
		co("NHRE", "NH Prime REIT", model.SectorRealEstate, "KR", 45, 7.52, 0, 225, 0, 0.7),
		co("LORE", "Lotte REIT", model.SectorRealEstate, "KR", 55, 6.5, 0, 330, 0, 0.65),
		co("KORE", "Koramco Energy Plus REIT", model.SectorRealEstate, "KR", 38, 5.2, 0, 240, 0, 0.8),
		co("IGRE", "IGIS Value Plus REIT", model.SectorRealEstate, "KR", 42, 4.8, 0, 260, 0, 0.75),
		co("ESRE", "ESR Kendall Square REIT", model.SectorRealEstate, "KR", 60, 8.5, 0, 430, 0, 0.7),

		co("HMM", "Hyundai Motor", model.SectorManufacturing, "KR", 1400000, 60000, 0, 1700000, 0, 1.1),
		co("LGE", "LG Electronics", model.SectorManufacturing, "KR", 840000, 7100, 0, 250000, 0, 1.2),
		co("POSCO", "POSCO Holdings", model.SectorManufacturing, "KR", 770000, 18500, 0, 590000, 0, 1.3),
		co("TSLA", "Tesla", model.SectorManufacturing, "US", 96800, 15000, 13600, 62600, 790000, 2.0),

		co("NVDA", "NVIDIA", model.SectorSemiconductor, "US", 60900, 29800, 35600, 43000, 1200000, 1.7),
		co("TSM", "TSMC", model.SectorSemiconductor, "TW", 69300, 27300, 46500, 110000, 530000, 1.2),
		co("SSNLF", "Samsung Electronics", model.SectorSemiconductor, "KR", 2589000, 154000, 0, 3630000, 0, 1.1),
		co("HXSCL", "SK Hynix", model.SectorSemiconductor, "KR", 327000, -91000, 0, 540000, 0, 1.4),

		co("AAPL", "Apple", model.SectorTechnology, "US", 383300, 97000, 125800, 62100, 2900000, 1.25),
		co("MSFT", "Microsoft", model.SectorTechnology, "US", 211900, 72400, 105100, 206200, 2800000, 0.9),

		co("COIN", "Coinbase", model.SectorCrypto, "US", 3100, 95, 600, 6000, 40000, 3.2),
	}
}
