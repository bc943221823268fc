package gen

import (
	"go/token"
	"strings"
	"sync"
	"unicode"

	"github.com/go-openapi/inflect"
)

var (
	acronymsMu sync.RWMutex
	// acronyms are rendered in upper case by pascal. Keys are lower case.
	acronyms = map[string]struct{}{
		"acl": {}, "api": {}, "ascii": {}, "cpu": {}, "css": {}, "dns": {},
		"eof": {}, "guid": {}, "html": {}, "http": {}, "https": {}, "id": {},
		"ip": {}, "json": {}, "lhs": {}, "qps": {}, "ram": {}, "rhs": {},
		"rpc": {}, "sla": {}, "smtp": {}, "sql": {}, "ssh": {}, "tcp": {},
		"tls": {}, "ttl": {}, "udp": {}, "ui": {}, "uid": {}, "uuid": {},
		"uri": {}, "url": {}, "utf8": {}, "vm": {}, "xml": {}, "xmpp": {},
		"xsrf": {}, "xss": {},
	}
)

// AddAcronym registers word as an acronym rendered in upper case in
// generated identifiers.
func AddAcronym(word string) {
	acronymsMu.Lock()
	defer acronymsMu.Unlock()
	acronyms[strings.ToLower(word)] = struct{}{}
	inflect.AddAcronym(strings.ToUpper(word))
}

func isAcronym(word string) bool {
	acronymsMu.RLock()
	defer acronymsMu.RUnlock()
	_, ok := acronyms[strings.ToLower(word)]
	return ok
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

// pascal converts a snake, kebab or camel case schema name to an exported Go
// identifier: "user_id" becomes "UserID", "bestColor" becomes "BestColor".
func pascal(s string) string {
	var b strings.Builder
	for _, w := range strings.FieldsFunc(s, isSeparator) {
		if isAcronym(w) {
			b.WriteString(strings.ToUpper(w))
			continue
		}
		b.WriteString(inflect.Capitalize(w))
	}
	return b.String()
}

// enumValueName returns the Go suffix of an enum value name. Upper case
// names are lowered first, so "DARK_RED" becomes "DarkRed".
func enumValueName(s string) string {
	if strings.ToUpper(s) == s {
		s = strings.ToLower(s)
	}
	return pascal(s)
}

// words splits an identifier at separators and case changes, keeping
// upper case runs together: "HTTPClient" yields ["HTTP", "Client"].
func words(s string) []string {
	var (
		out []string
		cur []rune
	)
	rs := []rune(s)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0:0]
		}
	}
	for i, r := range rs {
		switch {
		case isSeparator(r):
			flush()
			continue
		case unicode.IsUpper(r) && len(cur) > 0:
			prevLower := !unicode.IsUpper(cur[len(cur)-1])
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if prevLower || nextLower {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return out
}

// reservedReceivers collide with parameter and local names used by the
// generated methods.
var reservedReceivers = map[string]struct{}{
	"err": {}, "obj": {}, "upd": {}, "update": {}, "other": {}, "index": {},
}

// receiver returns the receiver name for a method on type name: the lower
// case initials of its words. "UserQuery" becomes "uq".
func receiver(name string) string {
	name = strings.TrimLeft(name, "[]*0123456789")
	var b strings.Builder
	for _, w := range words(name) {
		b.WriteRune(unicode.ToLower([]rune(w)[0]))
	}
	r := b.String()
	if _, reserved := reservedReceivers[r]; reserved || r == "" || token.IsKeyword(r) {
		return "x"
	}
	return r
}

// reservedFields are method names of generated types; a schema field with
// one of these names gets a trailing underscore.
var reservedFields = map[string]struct{}{
	"ComponentID":  {},
	"CommandIndex": {},
	"EncodeObject": {},
	"DecodeObject": {},
	"EncodeUpdate": {},
	"DecodeUpdate": {},
	"Merge":        {},
	"String":       {},
	"Uint32":       {},
}

// fieldName returns the Go name of a schema field.
func fieldName(name string) string {
	n := pascal(name)
	if _, reserved := reservedFields[n]; reserved {
		return n + "_"
	}
	return n
}
