package icon

import "encoding/json"

// Icon identifies a dashboard glyph. The zero value is Info.
type Icon int

const (
	Info Icon = iota
	CreditCard
	Smartphone
	Store
	Wifi
	Zap
	PoundSterling
	ShoppingBag
	Users
	Clock
	Banknote
	TrendingUp
	TrendingDown
	BarChart
)

var names = [...]string{
	Info:          "Info",
	CreditCard:    "CreditCard",
	Smartphone:    "Smartphone",
	Store:         "Store",
	Wifi:          "Wifi",
	Zap:           "Zap",
	PoundSterling: "PoundSterling",
	ShoppingBag:   "ShoppingBag",
	Users:         "Users",
	Clock:         "Clock",
	Banknote:      "Banknote",
	TrendingUp:    "TrendingUp",
	TrendingDown:  "TrendingDown",
	BarChart:      "BarChart3",
}

var byName = func() map[string]Icon {
	m := make(map[string]Icon, len(names))
	for i, n := range names {
		m[n] = Icon(i)
	}
	return m
}()

// Resolve maps an icon name from the fixture to an Icon. Unknown names
// resolve to Info.
func Resolve(name string) Icon {
	if i, ok := byName[name]; ok {
		return i
	}
	return Info
}

func (i Icon) String() string {
	if i < 0 || int(i) >= len(names) {
		return names[Info]
	}
	return names[i]
}

// MarshalJSON encodes the icon by name so clients can render it directly.
func (i Icon) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

// UnmarshalJSON decodes an icon name, resolving unknown names to Info.
func (i *Icon) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	*i = Resolve(name)
	return nil
}
