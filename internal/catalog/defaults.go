package catalog

// Default returns the built-in catalog. Footprints are illustrative constants.
func Default() *Catalog {
	return New(defaultEntries())
}

func defaultEntries() []Entry {
	return []Entry{
		{
			Keywords:          []string{"bottle", "water bottle", "soda bottle", "wine bottle", "plastic bottle"},
			Name:              "Plastic Water Bottle",
			Category:          CategoryPlastics,
			CarbonFootprintKg: 0.082,
			ManufacturingImpact: "Production of PET plastic requires petroleum and emits greenhouse gases. " +
				"The process consumes significant energy and water.",
			TransportationImpact: "Typically transported long distances from manufacturing plants to stores, " +
				"contributing to emissions from freight vehicles.",
			UsageImpact: "Single-use nature means repeated production and disposal impacts. " +
				"If reused, potential leaching of chemicals.",
			DisposalImpact: "Only about 30% are recycled. Most end up in landfills or oceans, " +
				"taking 450+ years to decompose.",
			Alternatives: []Alternative{
				{Name: "Reusable Stainless Steel Bottle", IconRef: "fas fa-wine-bottle"},
				{Name: "Glass Water Bottle", IconRef: "fas fa-glass-whiskey"},
				{Name: "BPA-Free Reusable Bottle", IconRef: "fas fa-recycle"},
				{Name: "Filtered Tap Water", IconRef: "fas fa-faucet"},
			},
		},
		{
			Keywords:          []string{"cell phone", "mobile", "smartphone", "phone"},
			Name:              "Smartphone",
			Category:          CategoryElectronics,
			CarbonFootprintKg: 55,
			ManufacturingImpact: "Extraction of rare earth minerals is energy-intensive. " +
				"Assembly processes consume significant electricity.",
			TransportationImpact: "Components sourced globally, assembled overseas, then shipped worldwide. " +
				"Complex supply chain.",
			UsageImpact:    "Charging consumes electricity. Data usage contributes to server farm emissions.",
			DisposalImpact: "E-waste is problematic. Only 20% is properly recycled. Toxic components can leach.",
			Alternatives: []Alternative{
				{Name: "Refurbished Phone", IconRef: "fas fa-mobile-alt"},
				{Name: "Phone with Modular Design", IconRef: "fas fa-cubes"},
				{Name: "Longer Usage Period", IconRef: "fas fa-history"},
				{Name: "E-Waste Recycling", IconRef: "fas fa-recycle"},
			},
		},
		{
			Keywords:          []string{"t-shirt", "shirt", "jersey", "clothing", "garment"},
			Name:              "Cotton T-Shirt",
			Category:          CategoryTextiles,
			CarbonFootprintKg: 2.1,
			ManufacturingImpact: "Cotton farming is water-intensive and uses pesticides. " +
				"Fabric production involves energy-consuming processes.",
			TransportationImpact: "Often manufactured overseas and shipped long distances. " +
				"Supply chain involves multiple transportation stages.",
			UsageImpact: "Washing and drying consume water and energy. " +
				"Frequent replacement increases overall footprint.",
			DisposalImpact: "Natural fiber decomposes but dye chemicals may leach. Many end up in landfills.",
			Alternatives: []Alternative{
				{Name: "Organic Cotton Clothing", IconRef: "fas fa-leaf"},
				{Name: "Hemp Fabric", IconRef: "fas fa-seedling"},
				{Name: "Bamboo Clothing", IconRef: "fas fa-tree"},
				{Name: "Secondhand Clothing", IconRef: "fas fa-tshirt"},
			},
		},
		{
			Keywords:          []string{"coffee cup", "paper cup", "cup", "coffee"},
			Name:              "Paper Coffee Cup",
			Category:          CategoryPaper,
			CarbonFootprintKg: 0.11,
			ManufacturingImpact: "Paper production from trees is resource-intensive. " +
				"Plastic lining makes recycling difficult.",
			TransportationImpact: "Cups are lightweight but often transported long distances to coffee shops.",
			UsageImpact:          "Single-use design means repeated production impacts. Lid adds additional plastic waste.",
			DisposalImpact:       "Most end up in landfills due to plastic lining. Decomposition releases methane.",
			Alternatives: []Alternative{
				{Name: "Reusable Coffee Mug", IconRef: "fas fa-mug-hot"},
				{Name: "Ceramic Cup", IconRef: "fas fa-coffee"},
				{Name: "Compostable Cup", IconRef: "fas fa-leaf"},
				{Name: "Dine In", IconRef: "fas fa-utensils"},
			},
		},
	}
}
