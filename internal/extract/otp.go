package extract

import "regexp"

var otpPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b\d{4,8}\b\s+is\s+(?:your|the)\s+(?:\w+\s+){0,3}?(?:otp|one[\s-]?time\s+pass(?:word|code)|verification\s+code|security\s+code)`),
	regexp.MustCompile(`(?i)\buse\s+\d{4,8}\s+as\s+(?:your\s+)?(?:otp|one[\s-]?time\s+pass(?:word|code))`),
	regexp.MustCompile(`(?i)\botp\b[^0-9]{0,25}\d{4,8}\b`),
	regexp.MustCompile(`(?i)\botp\b.{0,120}?\bis\s*:?\s*\d{4,8}\b`),
	regexp.MustCompile(`(?i)\bverification\s+code\b`),
	regexp.MustCompile(`(?i)\bone[\s-]?time\s+pass(?:word|code)\b`),
}

// IsOTP reports whether text looks like a one-time passcode message.
// Such messages must never reach amount or direction extraction.
func IsOTP(text string) bool {
	for _, re := range otpPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
