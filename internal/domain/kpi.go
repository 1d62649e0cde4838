package domain

// Kpi is one dashboard tile: a stable key, a display label, the headline
// value and an optional subtitle.
type Kpi struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
	Sub   string `json:"sub,omitempty"`
}
