package currency

import "strconv"

// FormatNumber renders an amount with comma thousands separators.
func FormatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)

	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}

	if len(s) > 3 {
		var out []byte
		lead := len(s) % 3
		if lead > 0 {
			out = append(out, s[:lead]...)
		}
		for i := lead; i < len(s); i += 3 {
			if len(out) > 0 {
				out = append(out, ',')
			}
			out = append(out, s[i:i+3]...)
		}
		s = string(out)
	}

	if neg {
		return "-" + s
	}
	return s
}

// FormatAmount renders an amount with the currency symbol, e.g. "1,000 ₽".
func (d Definition) FormatAmount(amount int64) string {
	if d.Symbol == "" {
		return FormatNumber(amount)
	}
	return FormatNumber(amount) + " " + d.Symbol
}

// FormatAmountWithName renders an amount with the declined currency name,
// e.g. "2 рубля". Falls back to the plain name when no forms are configured.
func (d Definition) FormatAmountWithName(amount int64) string {
	name := d.Declension(amount)
	if name == "" {
		name = d.Name
	}
	return FormatNumber(amount) + " " + name
}

// Declension picks the word form matching the amount using the East Slavic
// plural rule: 11-19 take the many form, then the last digit decides
// (1 -> one, 2-4 -> few, everything else -> many).
func (d Definition) Declension(amount int64) string {
	if d.Forms.One == "" && d.Forms.Few == "" && d.Forms.Many == "" {
		return ""
	}

	abs := amount
	if abs < 0 {
		abs = -abs
	}

	if last2 := abs % 100; last2 >= 11 && last2 <= 19 {
		return d.Forms.Many
	}

	switch abs % 10 {
	case 1:
		return d.Forms.One
	case 2, 3, 4:
		return d.Forms.Few
	default:
		return d.Forms.Many
	}
}
