package fees

import "strings"

// NormalizePhone rewrites the accepted national phone forms to one
// canonical "<countrycode><subscriber>" string:
//
//	+254700086852, 254700086852, 0700086852, 700086852 -> 254700086852
//
// It is total: unrecognized inputs pass through stripped of the leading
// "+"; rejecting them is the validation layer's job.
func NormalizePhone(raw, countryCode string) string {
	phone := strings.TrimSpace(raw)
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.TrimPrefix(phone, "+")

	switch {
	case strings.HasPrefix(phone, countryCode):
		return phone
	case strings.HasPrefix(phone, "0"):
		return countryCode + phone[1:]
	case len(phone) == 9:
		// bare subscriber number
		return countryCode + phone
	default:
		return phone
	}
}
