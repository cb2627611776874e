package extract

import (
	"regexp"
	"strconv"
	"strings"

	contractx "github.com/tanpawarit/Chative-Support-Mini-Agent/agent/contract"
)

const DefaultHomeCurrency = "TRY"

var (
	orderIDPattern = regexp.MustCompile(`\d{6,}`)

	// leading symbol, number (grouped or plain), optional unit word,
	// optional currency marker
	numberPattern = regexp.MustCompile(
		`(?:([$€₺])\s*)?(\d{1,3}(?:[.,]\d{3})+[.,]\d+|\d+(?:[.,]\d+)?)` +
			`(?:\s*(adet|pcs|pc|pieces|piece|units|unit)\b)?` +
			`(?:\s*((?:tl|try|usd|eur|gbp)\b|[$€₺]))?`,
	)
)

type Extractor struct {
	homeCurrency string
}

func New(homeCurrency string) *Extractor {
	homeCurrency = strings.ToUpper(strings.TrimSpace(homeCurrency))
	if homeCurrency == "" {
		homeCurrency = DefaultHomeCurrency
	}
	return &Extractor{homeCurrency: homeCurrency}
}

// Extract derives tool arguments for intent. Missing values are nil and
// left for the tool to reject.
func (e *Extractor) Extract(intent contractx.Intent, message string) map[string]any {
	switch intent {
	case contractx.IntentOrderStatus:
		id, ok := OrderID(message)
		if !ok {
			return map[string]any{"order_id": nil}
		}
		return map[string]any{"order_id": id}
	case contractx.IntentPricing:
		q := Pricing(message, e.homeCurrency)
		var quantity any = q.Quantity
		if q.InvalidQuantity != "" {
			quantity = q.InvalidQuantity
		}
		args := map[string]any{
			"quantity":   quantity,
			"unit_price": nil,
			"currency":   q.Currency,
		}
		if q.UnitPrice != nil {
			args["unit_price"] = *q.UnitPrice
		}
		return args
	default:
		return map[string]any{}
	}
}

// OrderID returns the first run of six or more digits.
func OrderID(message string) (string, bool) {
	m := orderIDPattern.FindString(message)
	return m, m != ""
}

type PriceQuery struct {
	Quantity int
	// InvalidQuantity holds the raw quantity token when it does not fit an
	// int; Quantity is then left at 1.
	InvalidQuantity string
	UnitPrice       *float64
	Currency        string
}

type numberToken struct {
	raw      string
	decimal  bool
	unit     bool
	currency string
}

// Pricing binds quantity and unit price from one scan of the message.
//
// The price is the first token carrying a decimal separator or an adjacent
// currency marker. The quantity is the first token followed by a unit word,
// else the first decimal-free token that is not the price. Without a marked
// price the first unclaimed token is used, and a lone unmarked number is the
// price with quantity 1.
func Pricing(message string, homeCurrency string) PriceQuery {
	tokens := scanNumbers(strings.ToLower(message))

	priceIdx := -1
	for i, t := range tokens {
		if t.decimal || t.currency != "" {
			priceIdx = i
			break
		}
	}

	qtyIdx := -1
	for i, t := range tokens {
		if t.unit && i != priceIdx {
			qtyIdx = i
			break
		}
	}
	if qtyIdx < 0 {
		for i, t := range tokens {
			if i != priceIdx && !t.decimal {
				qtyIdx = i
				break
			}
		}
	}

	if priceIdx < 0 {
		for i := range tokens {
			if i != qtyIdx {
				priceIdx = i
				break
			}
		}
		if priceIdx < 0 && qtyIdx >= 0 && !tokens[qtyIdx].unit {
			priceIdx, qtyIdx = qtyIdx, -1
		}
	}

	out := PriceQuery{Quantity: 1, Currency: homeCurrency}
	if out.Currency == "" {
		out.Currency = DefaultHomeCurrency
	}

	if qtyIdx >= 0 {
		if n, err := strconv.Atoi(tokens[qtyIdx].raw); err == nil {
			out.Quantity = n
		} else {
			out.InvalidQuantity = tokens[qtyIdx].raw
		}
	}
	if priceIdx >= 0 {
		t := tokens[priceIdx]
		if v, err := strconv.ParseFloat(normalizeNumber(t.raw), 64); err == nil {
			out.UnitPrice = &v
		}
		if t.currency != "" {
			out.Currency = strings.ToUpper(t.currency)
		}
	}
	return out
}

func scanNumbers(msg string) []numberToken {
	matches := numberPattern.FindAllStringSubmatchIndex(msg, -1)
	tokens := make([]numberToken, 0, len(matches))
	for _, m := range matches {
		// a number glued to a previous one by a separator is a fragment
		if isFragment(msg, m[4]) {
			continue
		}
		raw := msg[m[4]:m[5]]
		currency := group(msg, m, 4)
		if currency == "" {
			currency = group(msg, m, 1)
		}
		tokens = append(tokens, numberToken{
			raw:      raw,
			decimal:  strings.ContainsAny(raw, ".,"),
			unit:     group(msg, m, 3) != "",
			currency: currency,
		})
	}
	return tokens
}

func group(msg string, m []int, i int) string {
	if m[2*i] < 0 {
		return ""
	}
	return msg[m[2*i]:m[2*i+1]]
}

func isFragment(msg string, start int) bool {
	if start < 2 {
		return false
	}
	sep, prev := msg[start-1], msg[start-2]
	return (sep == '.' || sep == ',') && prev >= '0' && prev <= '9'
}

// normalizeNumber turns a matched number into ParseFloat form. With several
// separators of one kind they are all grouping ("1,250,000"); with mixed
// kinds the last one is the decimal point ("1.250,00"). A single separator
// is always decimal.
func normalizeNumber(raw string) string {
	last := strings.LastIndexAny(raw, ".,")
	if last < 0 {
		return raw
	}
	if strings.Count(raw, ".")+strings.Count(raw, ",") == 1 {
		return strings.Replace(raw, ",", ".", 1)
	}

	intPart := strings.NewReplacer(".", "", ",", "").Replace(raw[:last])
	if !strings.ContainsRune(raw[:last], rune(raw[last])) {
		return intPart + "." + raw[last+1:]
	}
	return intPart + raw[last+1:]
}
