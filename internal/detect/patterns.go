package detect

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// rule pairs a compiled regex with its category and an optional validator.
// When the regex has capture groups, the first non-empty group is the
// sensitive value; otherwise the whole match is.
type rule struct {
	category Category
	re       *regexp.Regexp
	validate func(string) bool
}

var (
	// Email addresses: user@example.com
	emailRegex = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	// IPv4 candidates; octet range is checked by the validator.
	ipv4Regex = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)

	// Hostname candidates: dot-separated labels. The validator rejects
	// purely numeric values, bad label shapes, and anything without a letter.
	hostnameRegex = regexp.MustCompile(`\b[A-Za-z0-9][A-Za-z0-9\-]{0,62}(?:\.[A-Za-z0-9][A-Za-z0-9\-]{0,62})+\b`)

	// API key heuristic: key=value style assignments plus well-known
	// standalone key shapes (AWS access key IDs, sk- prefixed secrets).
	apiKeyRegex = regexp.MustCompile(`(?i)(?:api[_\-]?key|apikey|access[_\-]?key|auth[_\-]?token|token|secret|bearer)["']?\s*[:=]\s*["']?([A-Za-z0-9_\-.]{12,})|(\bAKIA[0-9A-Z]{16}\b)|(\bsk-[A-Za-z0-9_\-]{20,}\b)`)

	// GUIDs: 550e8400-e29b-41d4-a716-446655440000
	guidRegex = regexp.MustCompile(`\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`)

	// SSH public keys: type, base64 blob, optional comment.
	sshKeyRegex = regexp.MustCompile(`\b(?:ssh-(?:rsa|dss|ed25519)|ecdsa-sha2-nistp(?:256|384|521))\s+[A-Za-z0-9+/]{32,}={0,3}(?:\s+[A-Za-z0-9._@\-]+)?`)

	// SSH fingerprints: SHA256 base64 form or MD5 colon-hex form.
	sshFingerprintRegex = regexp.MustCompile(`\bSHA256:[A-Za-z0-9+/]{43}\b|\b(?:MD5:)?(?:[0-9a-fA-F]{2}:){15}[0-9a-fA-F]{2}\b`)
)

// rulesFor returns the enabled rules in fixed category scan order.
func rulesFor(opts Options) []rule {
	all := []rule{
		{category: CategoryEmail, re: emailRegex},
		{category: CategoryIPAddress, re: ipv4Regex, validate: validIPv4},
		{category: CategoryHostname, re: hostnameRegex, validate: validHostname},
		{category: CategoryAPIKey, re: apiKeyRegex},
		{category: CategoryGUID, re: guidRegex},
		{category: CategorySSHKey, re: sshKeyRegex},
		{category: CategorySSHFingerprint, re: sshFingerprintRegex},
	}

	rules := make([]rule, 0, len(all))
	for _, r := range all {
		if opts.enabled(r.category) {
			rules = append(rules, r)
		}
	}
	return rules
}

// validIPv4 checks that every dotted octet is in 0–255.
func validIPv4(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 255 {
			return false
		}
	}
	return true
}

// validHostname rejects common false positives for dotted names:
// values without a letter (version numbers, IPs), values containing spaces
// or colons, and labels that break DNS shape rules.
func validHostname(s string) bool {
	if strings.ContainsAny(s, " :") {
		return false
	}

	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return false
	}

	labels := strings.Split(s, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if len(label) == 0 || len(label) > 63 {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		if !isAlphanumeric(rune(label[0])) || !isAlphanumeric(rune(label[len(label)-1])) {
			return false
		}
	}
	return true
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
