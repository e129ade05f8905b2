package common

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// accountPattern matches ledger-network account IDs like 0.0.123456
var accountPattern = regexp.MustCompile(`^0\.0\.[0-9]+$`)

// ValidAccountID reports whether s looks like a ledger-network account ID
func ValidAccountID(s string) bool {
	return accountPattern.MatchString(s)
}

// FormatAmount renders a token amount without trailing zero noise
func FormatAmount(amount decimal.Decimal) string {
	return amount.String()
}

// FormatWait renders a cooldown wait as "Xm Ys", rounding up so the user
// never sees "0m 0s" while still ineligible
func FormatWait(d time.Duration) string {
	seconds := int64((d + time.Second - 1) / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays
// in the user's local timezone. "R" renders relative time.
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
