package entity

import (
	"fmt"
	"strings"
)

// Shared lifecycle for support transactions and withdrawal requests.
// PENDING -> PROCESSING -> {COMPLETED | FAILED}. Terminal states are
// immutable; every terminal transition in the repositories is a
// conditional UPDATE so a duplicate delivery matches zero rows.
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

func IsTerminalStatus(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}

func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusProcessing || to == StatusCompleted || to == StatusFailed
	case StatusProcessing:
		return to == StatusCompleted || to == StatusFailed
	default:
		return false
	}
}

// Reference kinds embedded in the api_ref sent to the gateway, e.g.
// "support-3f2a..." or "withdraw-91bc...". Parsing the prefix back out is
// how the webhook handler finds the internal record without a secondary
// index.
const (
	RefKindSupport    = "support"
	RefKindWithdrawal = "withdraw"
)

func BuildAPIRef(kind, id string) string {
	return fmt.Sprintf("%s-%s", kind, id)
}

func ParseAPIRef(apiRef string) (kind, id string, ok bool) {
	kind, id, ok = strings.Cut(apiRef, "-")
	if !ok || id == "" {
		return "", "", false
	}
	if kind != RefKindSupport && kind != RefKindWithdrawal {
		return "", "", false
	}
	return kind, id, true
}
