package economy

import "github.com/shopspring/decimal"

// DefaultBusinessTypes returns the reference catalog in display order.
func DefaultBusinessTypes() []BusinessType {
	return []BusinessType{
		{
			Key:               "farm",
			Name:              "Farm",
			Sector:            SectorPrimary,
			Cost:              decimal.RequireFromString("5"),
			BuildTimeHours:    2,
			MaterialsRequired: 50,
			Produces:          ResourceCrops,
			Requires:          ResourceNone,
			BaseIncome:        decimal.RequireFromString("2.4"),
			OperatingCost:     decimal.RequireFromString("0.3"),
			Zones:             []Zone{ZoneResidential, ZoneIndustrial, ZoneOutskirts},
			MaxPerPlayer:      10,
		},
		{
			Key:               "power_plant",
			Name:              "Power Plant",
			Sector:            SectorPrimary,
			Cost:              decimal.RequireFromString("20"),
			BuildTimeHours:    8,
			MaterialsRequired: 300,
			Produces:          ResourceEnergy,
			Requires:          ResourceNone,
			BaseIncome:        decimal.RequireFromString("2.4"),
			OperatingCost:     decimal.RequireFromString("0.8"),
			Zones:             []Zone{ZoneIndustrial, ZoneOutskirts},
			MaxPerPlayer:      3,
		},
		{
			Key:               "quarry",
			Name:              "Quarry",
			Sector:            SectorPrimary,
			Cost:              decimal.RequireFromString("25"),
			BuildTimeHours:    10,
			MaterialsRequired: 200,
			Produces:          ResourceMaterials,
			Requires:          ResourceNone,
			BaseIncome:        decimal.RequireFromString("6.0"),
			OperatingCost:     decimal.RequireFromString("1.5"),
			Zones:             []Zone{ZoneIndustrial, ZoneOutskirts},
			MaxPerPlayer:      5,
		},
		{
			Key:               "oil_rig",
			Name:              "Oil Rig",
			Sector:            SectorPrimary,
			Cost:              decimal.RequireFromString("40"),
			BuildTimeHours:    16,
			MaterialsRequired: 400,
			Produces:          ResourceFuel,
			Requires:          ResourceNone,
			BaseIncome:        decimal.RequireFromString("8.0"),
			OperatingCost:     decimal.RequireFromString("2.0"),
			Zones:             []Zone{ZoneIndustrial, ZoneOutskirts},
			MaxPerPlayer:      3,
		},
		{
			Key:               "mine",
			Name:              "Mine",
			Sector:            SectorPrimary,
			Cost:              decimal.RequireFromString("35"),
			BuildTimeHours:    14,
			MaterialsRequired: 350,
			Produces:          ResourceOre,
			Requires:          ResourceNone,
			BaseIncome:        decimal.RequireFromString("7.0"),
			OperatingCost:     decimal.RequireFromString("1.8"),
			Zones:             []Zone{ZoneIndustrial, ZoneOutskirts},
			MaxPerPlayer:      4,
		},
		{
			Key:               "factory",
			Name:              "Factory",
			Sector:            SectorSecondary,
			Cost:              decimal.RequireFromString("15"),
			BuildTimeHours:    6,
			MaterialsRequired: 150,
			Produces:          ResourceGoods,
			Requires:          ResourceCrops,
			BaseIncome:        decimal.RequireFromString("2.88"),
			OperatingCost:     decimal.RequireFromString("1.44"),
			Zones:             []Zone{ZoneBusiness, ZoneIndustrial},
			MaxPerPlayer:      8,
		},
		{
			Key:               "construction_company",
			Name:              "Construction Co.",
			Sector:            SectorSecondary,
			Cost:              decimal.RequireFromString("30"),
			BuildTimeHours:    12,
			MaterialsRequired: 250,
			Produces:          ResourceConstructionService,
			Requires:          ResourceMaterials,
			BaseIncome:        decimal.RequireFromString("5.0"),
			OperatingCost:     decimal.RequireFromString("1.0"),
			Zones:             []Zone{ZoneBusiness, ZoneIndustrial},
			MaxPerPlayer:      5,
		},
		{
			Key:               "refinery",
			Name:              "Refinery",
			Sector:            SectorSecondary,
			Cost:              decimal.RequireFromString("50"),
			BuildTimeHours:    20,
			MaterialsRequired: 500,
			Produces:          ResourceRefinedFuel,
			Requires:          ResourceFuel,
			BaseIncome:        decimal.RequireFromString("10.0"),
			OperatingCost:     decimal.RequireFromString("3.0"),
			Zones:             []Zone{ZoneIndustrial},
			MaxPerPlayer:      2,
		},
		{
			Key:               "steel_mill",
			Name:              "Steel Mill",
			Sector:            SectorSecondary,
			Cost:              decimal.RequireFromString("45"),
			BuildTimeHours:    18,
			MaterialsRequired: 450,
			Produces:          ResourceSteel,
			Requires:          ResourceOre,
			BaseIncome:        decimal.RequireFromString("9.0"),
			OperatingCost:     decimal.RequireFromString("2.5"),
			Zones:             []Zone{ZoneIndustrial},
			MaxPerPlayer:      3,
		},
		{
			Key:               "textile_factory",
			Name:              "Textile Factory",
			Sector:            SectorSecondary,
			Cost:              decimal.RequireFromString("20"),
			BuildTimeHours:    8,
			MaterialsRequired: 180,
			Produces:          ResourceTextiles,
			Requires:          ResourceCrops,
			BaseIncome:        decimal.RequireFromString("4.0"),
			OperatingCost:     decimal.RequireFromString("1.2"),
			Zones:             []Zone{ZoneBusiness, ZoneIndustrial},
			MaxPerPlayer:      6,
		},
		{
			Key:               "shop",
			Name:              "Shop",
			Sector:            SectorTertiary,
			Cost:              decimal.RequireFromString("10"),
			BuildTimeHours:    4,
			MaterialsRequired: 100,
			Produces:          ResourceRetail,
			Requires:          ResourceGoods,
			BaseIncome:        decimal.RequireFromString("4.8"),
			OperatingCost:     decimal.RequireFromString("0.5"),
			Zones:             []Zone{ZoneCenter, ZoneBusiness, ZoneResidential},
			MaxPerPlayer:      15,
			CustomerFlow:      map[Zone]int{ZoneCenter: 100, ZoneBusiness: 60, ZoneResidential: 40},
		},
		{
			Key:               "restaurant",
			Name:              "Restaurant",
			Sector:            SectorTertiary,
			Cost:              decimal.RequireFromString("12"),
			BuildTimeHours:    5,
			MaterialsRequired: 120,
			Produces:          ResourceFoodService,
			Requires:          ResourceCrops,
			BaseIncome:        decimal.RequireFromString("5.4"),
			OperatingCost:     decimal.RequireFromString("0.86"),
			Zones:             []Zone{ZoneCenter, ZoneBusiness, ZoneResidential},
			MaxPerPlayer:      10,
			CustomerFlow:      map[Zone]int{ZoneCenter: 80, ZoneBusiness: 50, ZoneResidential: 30},
		},
		{
			Key:               "hotel",
			Name:              "Hotel",
			Sector:            SectorTertiary,
			Cost:              decimal.RequireFromString("35"),
			BuildTimeHours:    16,
			MaterialsRequired: 350,
			Produces:          ResourceAccommodation,
			Requires:          ResourceNone,
			BaseIncome:        decimal.RequireFromString("8.0"),
			OperatingCost:     decimal.RequireFromString("2.0"),
			Zones:             []Zone{ZoneCenter, ZoneBusiness},
			MaxPerPlayer:      5,
			CustomerFlow:      map[Zone]int{ZoneCenter: 90, ZoneBusiness: 60},
		},
		{
			Key:               "hospital",
			Name:              "Hospital",
			Sector:            SectorTertiary,
			Cost:              decimal.RequireFromString("60"),
			BuildTimeHours:    24,
			MaterialsRequired: 600,
			Produces:          ResourceHealthcare,
			Requires:          ResourceNone,
			BaseIncome:        decimal.RequireFromString("12.0"),
			OperatingCost:     decimal.RequireFromString("4.0"),
			Zones:             []Zone{ZoneCenter, ZoneBusiness, ZoneResidential},
			MaxPerPlayer:      2,
		},
		{
			Key:               "university",
			Name:              "University",
			Sector:            SectorTertiary,
			Cost:              decimal.RequireFromString("70"),
			BuildTimeHours:    30,
			MaterialsRequired: 700,
			Produces:          ResourceEducation,
			Requires:          ResourceNone,
			BaseIncome:        decimal.RequireFromString("10.0"),
			OperatingCost:     decimal.RequireFromString("3.0"),
			Zones:             []Zone{ZoneCenter, ZoneBusiness},
			MaxPerPlayer:      1,
		},
		{
			Key:               "logistics_center",
			Name:              "Logistics Center",
			Sector:            SectorTertiary,
			Cost:              decimal.RequireFromString("25"),
			BuildTimeHours:    10,
			MaterialsRequired: 250,
			Produces:          ResourceLogistics,
			Requires:          ResourceNone,
			BaseIncome:        decimal.RequireFromString("6.0"),
			OperatingCost:     decimal.RequireFromString("1.5"),
			Zones:             []Zone{ZoneBusiness, ZoneIndustrial},
			MaxPerPlayer:      5,
		},
		{
			Key:               "gas_station",
			Name:              "Gas Station",
			Sector:            SectorTertiary,
			Cost:              decimal.RequireFromString("15"),
			BuildTimeHours:    6,
			MaterialsRequired: 150,
			Produces:          ResourceFuelRetail,
			Requires:          ResourceRefinedFuel,
			BaseIncome:        decimal.RequireFromString("4.0"),
			OperatingCost:     decimal.RequireFromString("1.0"),
			Zones:             []Zone{ZoneBusiness, ZoneResidential, ZoneIndustrial, ZoneOutskirts},
			MaxPerPlayer:      8,
		},
		{
			Key:               "bank",
			Name:              "Bank",
			Sector:            SectorQuaternary,
			Cost:              decimal.RequireFromString("50"),
			BuildTimeHours:    24,
			MaterialsRequired: 500,
			Produces:          ResourceFinance,
			Requires:          ResourceNone,
			BaseIncome:        decimal.RequireFromString("4.5"),
			OperatingCost:     decimal.RequireFromString("0.6"),
			Zones:             []Zone{ZoneCenter, ZoneBusiness},
			MaxPerPlayer:      1,
		},
		{
			Key:               "exchange",
			Name:              "Exchange",
			Sector:            SectorQuaternary,
			Cost:              decimal.RequireFromString("100"),
			BuildTimeHours:    48,
			MaterialsRequired: 1000,
			Produces:          ResourceTrading,
			Requires:          ResourceNone,
			BaseIncome:        decimal.RequireFromString("20.0"),
			OperatingCost:     decimal.RequireFromString("3.0"),
			Zones:             []Zone{ZoneCenter},
			MaxPerPlayer:      1,
			MaxTotal:          5,
		},
		{
			Key:               "tech_hub",
			Name:              "Tech Hub",
			Sector:            SectorQuaternary,
			Cost:              decimal.RequireFromString("80"),
			BuildTimeHours:    36,
			MaterialsRequired: 800,
			Produces:          ResourceTechService,
			Requires:          ResourceNone,
			BaseIncome:        decimal.RequireFromString("15.0"),
			OperatingCost:     decimal.RequireFromString("4.0"),
			Zones:             []Zone{ZoneCenter, ZoneBusiness},
			MaxPerPlayer:      2,
		},
		{
			Key:               "data_center",
			Name:              "Data Center",
			Sector:            SectorQuaternary,
			Cost:              decimal.RequireFromString("90"),
			BuildTimeHours:    40,
			MaterialsRequired: 900,
			Produces:          ResourceDataService,
			Requires:          ResourceNone,
			BaseIncome:        decimal.RequireFromString("18.0"),
			OperatingCost:     decimal.RequireFromString("6.0"),
			Zones:             []Zone{ZoneBusiness, ZoneIndustrial},
			MaxPerPlayer:      2,
		},
		{
			Key:               "insurance",
			Name:              "Insurance Co.",
			Sector:            SectorQuaternary,
			Cost:              decimal.RequireFromString("40"),
			BuildTimeHours:    16,
			MaterialsRequired: 400,
			Produces:          ResourceInsurance,
			Requires:          ResourceNone,
			BaseIncome:        decimal.RequireFromString("6.0"),
			OperatingCost:     decimal.RequireFromString("1.0"),
			Zones:             []Zone{ZoneCenter, ZoneBusiness},
			MaxPerPlayer:      2,
		},
	}
}

// DefaultResourcePrices returns the spot price per unit of each tradable resource.
func DefaultResourcePrices() map[ResourceType]decimal.Decimal {
	return map[ResourceType]decimal.Decimal{
		ResourceCrops:       decimal.RequireFromString("0.001"),
		ResourceEnergy:      decimal.RequireFromString("0.0002"),
		ResourceMaterials:   decimal.RequireFromString("0.005"),
		ResourceFuel:        decimal.RequireFromString("0.008"),
		ResourceOre:         decimal.RequireFromString("0.006"),
		ResourceGoods:       decimal.RequireFromString("0.004"),
		ResourceRefinedFuel: decimal.RequireFromString("0.015"),
		ResourceSteel:       decimal.RequireFromString("0.012"),
		ResourceTextiles:    decimal.RequireFromString("0.003"),
	}
}
