package classifier

import "regexp"

// The patterns below are permissive heuristics, not RFC grammars. They mirror
// the matchers mobile platforms ship for the same job and are matched
// against the whole input.
var (
	// Optional "+country" prefix, optional "(area)" group, then a run of digits
	// with space, dash or dot separators that starts and ends on a digit.
	phonePattern = regexp.MustCompile(
		`^(?:\+[0-9]+[\- .]*)?(?:\([0-9]+\)[\- .]*)?[0-9][0-9\- .]+[0-9]$`,
	)

	// local@domain.tld with at least one dot in the domain. Quoted local parts,
	// IP literals and internationalized addresses are not recognized.
	emailPattern = regexp.MustCompile(
		`^[a-zA-Z0-9+._%\-]{1,256}@[a-zA-Z0-9][a-zA-Z0-9\-]{0,64}(?:\.[a-zA-Z0-9][a-zA-Z0-9\-]{0,25})+$`,
	)

	// Optional http(s) scheme and userinfo, a dotted hostname ending in an
	// alphabetic TLD or an IPv4 address, optional port, then any path, query
	// or fragment without whitespace.
	urlPattern = regexp.MustCompile(
		`^(?i:https?://)?` +
			`(?:[\p{L}\p{N}\-._~%!$&'()*+,;=:]+@)?` +
			`(?:` +
			`(?:[\p{L}\p{N}](?:[\p{L}\p{N}\-]{0,61}[\p{L}\p{N}])?\.)+\p{L}{2,63}` +
			`|` +
			`(?:25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])(?:\.(?:25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])){3}` +
			`)` +
			`(?::[0-9]{1,5})?` +
			`(?:[/?#]\S*)?$`,
	)

	nonDigit      = regexp.MustCompile(`[^0-9]`)
	nonDialSymbol = regexp.MustCompile(`[^0-9+]`)
)

func looksLikePhone(input string) bool {
	digits := nonDigit.ReplaceAllString(input, "")
	return len(digits) >= minPhoneDigits && phonePattern.MatchString(input)
}

func looksLikeEmail(input string) bool {
	return emailPattern.MatchString(input)
}

func looksLikeURL(input string) bool {
	return urlPattern.MatchString(input)
}
