package smartpay

import (
	"fmt"
	"strconv"
	"strings"

	domainErrors "github.com/idrissabarry/vendgate/internal/domain/errors"
)

// FormatAmount normalizes an amount to a fixed-point decimal string with
// exactly two fractional digits, as the gateway requires. Integers, floats
// and numeric strings are all accepted; anything else fails validation.
// "13567" becomes "13567.00", 2000.5 becomes "2000.50" and extra digits are
// rounded: "3544.444" becomes "3544.44".
func FormatAmount(v any) (string, error) {
	switch t := v.(type) {
	case int:
		return fmt.Sprintf("%d.00", t), nil
	case int64:
		return fmt.Sprintf("%d.00", t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', 2, 64), nil
	case float32:
		return strconv.FormatFloat(float64(t), 'f', 2, 64), nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return "", fmt.Errorf("%w: empty amount", domainErrors.ErrInvalidAmount)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return "", fmt.Errorf("%w: %q", domainErrors.ErrInvalidAmount, t)
		}
		return strconv.FormatFloat(f, 'f', 2, 64), nil
	default:
		return "", fmt.Errorf("%w: unsupported type %T", domainErrors.ErrInvalidAmount, v)
	}
}
