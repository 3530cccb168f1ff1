package names

import "strings"

// Strict reports whether two personal-name strings denote the same person
// under the authoritative rule: exact equality after Normalize, with both
// sides non-empty.
//
// The reconciliation join binds Strict on purpose. A partial match must
// never upgrade a report to a confirmed one, so anything short of full
// normalized equality is treated as a different person.
func Strict(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb
}

// Loose is the convenience matcher used by the contact-lookup path, where
// a false positive costs a wasted phone call, not a wrong audit verdict.
//
// Conditions, first match wins:
//  1. Strict equality.
//  2. Containment either direction.
//  3. First-token equality.
//  4. At least two shared tokens.
//
// Loose must never be substituted for Strict in the reconciliation join.
func Loose(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}

	ta := strings.Fields(na)
	tb := strings.Fields(nb)
	if ta[0] == tb[0] {
		return true
	}

	set := make(map[string]bool, len(tb))
	for _, tok := range tb {
		set[tok] = true
	}
	shared := 0
	for _, tok := range ta {
		if set[tok] {
			shared++
		}
	}
	return shared >= 2
}
