package ledger

import (
	"regexp"
	"strings"
)

// DestinationKind classifies where a withdrawal is routed.
type DestinationKind string

const (
	// DestinationChain is an on-chain address payout.
	DestinationChain DestinationKind = "CHAIN"
	// DestinationOffPlatform is an off-platform payment identifier payout.
	DestinationOffPlatform DestinationKind = "OFFPLATFORM"
)

var chainAddressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ClassifyDestination decides whether a withdrawal destination is a chain
// address or an off-platform payment identifier. Anything else is rejected
// before any state changes.
func ClassifyDestination(destination string) (DestinationKind, error) {
	destination = strings.TrimSpace(destination)

	if chainAddressPattern.MatchString(destination) {
		return DestinationChain, nil
	}

	// Off-platform payment identifiers are e-mail style handles.
	if at := strings.Index(destination, "@"); at > 0 && at < len(destination)-1 && !strings.ContainsAny(destination, " \t") {
		return DestinationOffPlatform, nil
	}

	return "", ErrInvalidDestination
}
