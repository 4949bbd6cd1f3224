package model

// Pricing holds per-million-token pricing in USD.
type Pricing struct {
	InputPerMillion  float64 `json:"input_per_million" yaml:"input_per_million" toml:"input_per_million"`
	OutputPerMillion float64 `json:"output_per_million" yaml:"output_per_million" toml:"output_per_million"`
}

// Cost returns the USD cost of the given token counts.
func (p Pricing) Cost(input, output int) float64 {
	return float64(input)/1_000_000*p.InputPerMillion +
		float64(output)/1_000_000*p.OutputPerMillion
}

// ProviderPrices is the fallback rate per provider, used when the model
// has no entry of its own.
var ProviderPrices = map[Provider]Pricing{
	ProviderGemini:   {InputPerMillion: 0.10, OutputPerMillion: 0.40},
	ProviderDeepSeek: {InputPerMillion: 0.27, OutputPerMillion: 1.10},
	ProviderOpenAI:   {InputPerMillion: 2.50, OutputPerMillion: 10.00},
}

// ModelPrices holds per-model rates (as of 2025).
var ModelPrices = map[ModelName]Pricing{
	ModelGeminiFlash:      {InputPerMillion: 0.10, OutputPerMillion: 0.40},
	ModelGeminiPro:        {InputPerMillion: 1.25, OutputPerMillion: 10.00},
	ModelDeepSeekChat:     {InputPerMillion: 0.27, OutputPerMillion: 1.10},
	ModelDeepSeekReasoner: {InputPerMillion: 0.55, OutputPerMillion: 2.19},
	ModelGPT4oMini:        {InputPerMillion: 0.15, OutputPerMillion: 0.60},
	ModelGPT4o:            {InputPerMillion: 2.50, OutputPerMillion: 10.00},
}

// PriceTable resolves the rate for a provider/model pair.
type PriceTable struct {
	providers map[Provider]Pricing
	models    map[ModelName]Pricing
}

// NewPriceTable creates a table seeded with ProviderPrices and ModelPrices.
func NewPriceTable() *PriceTable {
	t := &PriceTable{
		providers: make(map[Provider]Pricing, len(ProviderPrices)),
		models:    make(map[ModelName]Pricing, len(ModelPrices)),
	}
	for p, price := range ProviderPrices {
		t.providers[p] = price
	}
	for m, price := range ModelPrices {
		t.models[m] = price
	}
	return t
}

// SetModel overrides the rate for a model.
func (t *PriceTable) SetModel(name ModelName, price Pricing) *PriceTable {
	t.models[name] = price
	return t
}

// SetProvider overrides the fallback rate for a provider.
func (t *PriceTable) SetProvider(p Provider, price Pricing) *PriceTable {
	t.providers[p] = price
	return t
}

// Lookup returns the rate for the pair: model first, then provider.
// ok is false when neither is known; the zero Pricing is returned.
func (t *PriceTable) Lookup(p Provider, name ModelName) (Pricing, bool) {
	if price, ok := t.models[name]; ok {
		return price, true
	}
	price, ok := t.providers[p]
	return price, ok
}

// Cost prices a call. Unknown providers and models cost 0.
func (t *PriceTable) Cost(p Provider, name ModelName, input, output int) float64 {
	price, _ := t.Lookup(p, name)
	return price.Cost(input, output)
}
