package model

// IsLedgerAddress reports whether s looks like a Sui account address:
// a 0x prefix followed by 1-64 hex digits.
func IsLedgerAddress(s string) bool {
	if len(s) < 3 || len(s) > 66 {
		return false
	}
	if s[0] != '0' || (s[1] != 'x' && s[1] != 'X') {
		return false
	}
	for _, c := range s[2:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
