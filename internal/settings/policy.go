package settings

import (
	"fmt"
	"strings"
)

// IDPolicy decides what happens when a write carries an id other than the stored one.
type IDPolicy string

const (
	// IDPolicyAdopt stores the caller's id as given, replacing the record's identity.
	IDPolicyAdopt IDPolicy = "adopt"
	// IDPolicyReject refuses writes whose id differs from the stored record's id.
	IDPolicyReject IDPolicy = "reject"
)

// ParseIDPolicy parses a policy name. An empty name selects IDPolicyAdopt.
func ParseIDPolicy(name string) (IDPolicy, error) {
	switch p := IDPolicy(strings.ToLower(strings.TrimSpace(name))); p {
	case "":
		return IDPolicyAdopt, nil
	case IDPolicyAdopt, IDPolicyReject:
		return p, nil
	default:
		return "", fmt.Errorf("unknown id policy %q (want %q or %q)", name, IDPolicyAdopt, IDPolicyReject)
	}
}
