// Package currency holds the data-driven currency registry. Display metadata
// and starting balances come from configuration, so new currencies need no
// code changes.
package currency

// Forms are the quantity-dependent word forms of a currency name, used for
// languages that decline nouns by count (1 рубль, 2 рубля, 5 рублей).
// Languages without declension can set all three to the same value.
type Forms struct {
	One  string `mapstructure:"one"`
	Few  string `mapstructure:"few"`
	Many string `mapstructure:"many"`
}

// Definition describes one currency known to the registry.
type Definition struct {
	Code            string `mapstructure:"code"`
	Name            string `mapstructure:"name"`
	Symbol          string `mapstructure:"symbol"`
	StartingBalance int64  `mapstructure:"starting_balance"`
	Forms           Forms  `mapstructure:"forms"`
}

// ErrUnknownCurrency indicates a currency code the registry does not know
type ErrUnknownCurrency struct {
	Code string
}

func (e ErrUnknownCurrency) Error() string {
	return "unknown currency: " + e.Code
}

// Is matches any ErrUnknownCurrency when the target carries no code
func (e ErrUnknownCurrency) Is(target error) bool {
	t, ok := target.(ErrUnknownCurrency)
	if !ok {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}
