package keyword

// Per-group confidence bonuses applied by the decision policy when the
// group has at least one hit.
const (
	defaultDrugNameWeight  = 0.30
	defaultSlangWeight     = 0.25
	defaultSalesTermWeight = 0.15
	defaultSymbolWeight    = 0.10
)

// DefaultGroups returns the stock term lists: exact drug names, Indian
// street slang, sales/logistics phrases, and symbolic emoji markers.
func DefaultGroups() []Group {
	return []Group{
		{
			Name:       "drug_names",
			Weight:     defaultDrugNameWeight,
			HighSignal: true,
			Terms: []string{
				"mdma", "lsd", "mephedrone", "cocaine", "heroin", "cannabis",
				"marijuana", "ganja", "charas", "hash", "hashish", "weed", "pot",
				"ecstasy", "molly", "meth", "crystal meth", "acid", "brown sugar",
				"white powder",
			},
		},
		{
			Name:   "indian_slang",
			Weight: defaultSlangWeight,
			Terms: []string{
				"maal", "quality stuff", "party stuff", "green stuff",
				"supply", "stock", "product", "goods",
			},
		},
		{
			Name:   "sales_terms",
			Weight: defaultSalesTermWeight,
			Terms: []string{
				"home delivery", "cash on delivery", "discreet packaging",
				"safe delivery", "quality guarantee", "bulk discount",
				"wholesale rates", "price list", "dm for price",
				"whatsapp for details", "serious buyers only", "stealth shipping",
				"express delivery", "doorstep delivery", "available", "in stock",
				"dealer", "supplier",
			},
		},
		{
			Name:     "symbols",
			Weight:   defaultSymbolWeight,
			Symbolic: true,
			Terms: []string{
				"💊", "🌿", "💉", "🔥", "⚡", "💯", "💰", "📦",
			},
		},
	}
}
