package budget

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// AdjustedMarker is appended to a calculation basis that could not be
// rewritten after its amount changed.
const AdjustedMarker = " (조정됨)"

// unit price, optional 원, multiplication glyph, quantity, trailing unit label
var basisPattern = regexp.MustCompile(`(\d+)원?\s*[×xX*]\s*(\d+)(\D*)`)

// RecalculateBasis rewrites a "unit price × quantity unit" annotation so the
// quantity matches newAmount, keeping the unit price and unit label. When the
// annotation has no such pattern, or the unit price is unusable, the original
// text is returned with AdjustedMarker appended. It never fails.
//
// The fallback is not idempotent: a basis already carrying the marker gets a
// second one on the next adjustment.
func RecalculateBasis(original string, newAmount int64) string {
	m := basisPattern.FindStringSubmatch(original)
	if m == nil {
		return original + AdjustedMarker
	}

	unitPrice, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || unitPrice == 0 {
		return original + AdjustedMarker
	}
	unit := strings.TrimSpace(m[3])

	quantity := roundHalfUp(decimal.NewFromInt(newAmount).Div(decimal.NewFromInt(unitPrice)))
	return fmt.Sprintf("%d원 × %d%s", unitPrice, quantity, unit)
}
