package settlement

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/valetnat/e-commerce/internal/domain"
)

// Accepted bank account format: four digits, a space, four digits.
var bankAccountPattern = regexp.MustCompile(`^\d{4} \d{4}$`)

// NormalizeBankAccount validates the textual account format and collapses it
// into the 8-digit integer submitted to the gateway.
func NormalizeBankAccount(account string) (int64, error) {
	if !bankAccountPattern.MatchString(account) {
		return 0, domain.ErrInvalidBankAccount
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(account, " ", ""), 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidBankAccount
	}
	return n, nil
}
