package economy

import (
	"time"

	domainerrors "citysim/internal/domain/errors"

	"github.com/shopspring/decimal"
)

// ProjectionConnections are the connection counts shown in the income table.
var ProjectionConnections = []int{0, 1, 2, 3, 5}

// noPayback is reported as ROI when a business never earns its cost back.
const noPayback = 999

// IncomeProjection is the steady-state daily outlook of a business.
type IncomeProjection struct {
	Type           string          `json:"type"`
	Level          int             `json:"level"`
	Zone           Zone            `json:"zone"`
	Connections    int             `json:"connections"`
	Gross          decimal.Decimal `json:"gross"`
	OperatingCost  decimal.Decimal `json:"operating_cost"`
	Tax            decimal.Decimal `json:"tax"`
	Net            decimal.Decimal `json:"net"`
	Monthly        decimal.Decimal `json:"monthly"`
	ConnectionMult decimal.Decimal `json:"connection_mult"`
	ZoneMult       decimal.Decimal `json:"zone_mult"`
	ROIDays        decimal.Decimal `json:"roi_days"`
}

// Project computes one day of income for the given parameters.
func (e *Engine) Project(typeKey string, level int, zone Zone, connections int) (IncomeProjection, error) {
	t, ok := e.catalog.Lookup(typeKey)
	if !ok {
		return IncomeProjection{}, domainerrors.ErrUnknownBusinessType.WithDetails(typeKey)
	}
	if level < 1 || level > e.levels.MaxLevel() {
		return IncomeProjection{}, domainerrors.ErrValidationFailed.WithDetails("level out of range")
	}
	if _, ok := e.gameMap.ZoneSpec(zone); !ok {
		return IncomeProjection{}, domainerrors.ErrValidationFailed.WithDetails("unknown zone " + string(zone))
	}

	start := time.Unix(0, 0).UTC()
	a, err := e.Accrue(AccrualInput{
		TypeKey:        typeKey,
		Level:          level,
		Zone:           zone,
		Connections:    connections,
		LastCollection: start,
		Now:            start.Add(24 * time.Hour),
		Context:        BonusProjection,
		MarketShare:    decimal.Zero,
	})
	if err != nil {
		return IncomeProjection{}, err
	}

	roi := decimal.NewFromInt(noPayback)
	if a.Net.IsPositive() {
		roi = e.ConstructionCost(t).Div(a.Net).Round(1)
	}

	return IncomeProjection{
		Type:           typeKey,
		Level:          level,
		Zone:           zone,
		Connections:    connections,
		Gross:          a.Gross,
		OperatingCost:  a.OperatingCost,
		Tax:            a.Tax,
		Net:            a.Net,
		Monthly:        a.Net.Mul(decimal.NewFromInt(30)),
		ConnectionMult: a.ConnectionMult,
		ZoneMult:       a.ZoneMult,
		ROIDays:        roi,
	}, nil
}

// IncomeTable projects every type over all levels, its eligible zones and the
// standard connection counts.
func (e *Engine) IncomeTable() []IncomeProjection {
	var rows []IncomeProjection
	for _, t := range e.catalog.Types() {
		rows = append(rows, e.TypeIncomeTable(t.Key)...)
	}

	return rows
}

// TypeIncomeTable is IncomeTable restricted to one type. Unknown keys yield nil.
func (e *Engine) TypeIncomeTable(typeKey string) []IncomeProjection {
	t, ok := e.catalog.Lookup(typeKey)
	if !ok {
		return nil
	}

	rows := make([]IncomeProjection, 0, e.levels.MaxLevel()*len(t.Zones)*len(ProjectionConnections))
	for level := 1; level <= e.levels.MaxLevel(); level++ {
		for _, z := range t.Zones {
			for _, c := range ProjectionConnections {
				row, err := e.Project(t.Key, level, z, c)
				if err != nil {
					continue
				}
				rows = append(rows, row)
			}
		}
	}

	return rows
}
