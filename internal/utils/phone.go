package utils

import "strings"

// NormalizePhone reduces a Turkish phone number to its 10-digit national
// form so that "05321234567", "+90 532 123 45 67", "905321234567" and
// "5321234567" all compare equal.  Input that does not look like a
// Turkish number is returned as its bare digits.
func NormalizePhone(raw string) string {
    var b strings.Builder
    for _, r := range raw {
        if r >= '0' && r <= '9' {
            b.WriteRune(r)
        }
    }
    d := b.String()
    switch {
    case len(d) == 12 && strings.HasPrefix(d, "90"):
        return d[2:]
    case len(d) == 11 && strings.HasPrefix(d, "0"):
        return d[1:]
    case len(d) == 14 && strings.HasPrefix(d, "0090"):
        return d[4:]
    }
    return d
}

// ValidPhone reports whether raw normalises to a 10-digit mobile or
// landline number.
func ValidPhone(raw string) bool {
    d := NormalizePhone(raw)
    return len(d) == 10 && d[0] != '0'
}
