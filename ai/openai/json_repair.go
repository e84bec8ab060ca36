package openai

import "regexp"

var (
	// `{ keywords:` or `, is_vague:` -> quote the key.
	unquotedKeyPattern = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)(\s*:)`)

	// `: trailing comma before } or ]`
	trailingCommaPattern = regexp.MustCompile(`,(\s*[}\]])`)

	// `, type":` -> `, "type":` (model dropped the opening quote only).
	halfQuotedKeyPattern = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_ ]*)("\s*:)`)
)

// repairJSON fixes the JSON formatting mistakes local models make most
// often: unquoted or half-quoted object keys and trailing commas. It is
// deliberately conservative; anything it cannot fix is left for the
// unmarshal error and the retry loop.
func repairJSON(s string) string {
	s = halfQuotedKeyPattern.ReplaceAllString(s, `$1"$2$3`)
	s = unquotedKeyPattern.ReplaceAllString(s, `$1"$2"$3`)
	s = trailingCommaPattern.ReplaceAllString(s, `$1`)
	return s
}
