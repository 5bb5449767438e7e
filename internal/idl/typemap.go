package idl

import "strings"

// rustTypes maps Rust type spellings to IDL type names.
var rustTypes = map[string]string{
	"u8":       "u8",
	"i8":       "i8",
	"u16":      "u16",
	"i16":      "i16",
	"u32":      "u32",
	"i32":      "i32",
	"u64":      "u64",
	"i64":      "i64",
	"bool":     "bool",
	"String":   "string",
	"Pubkey":   "publicKey",
	"[u8; 32]": "publicKey",
}

// MapType translates a Rust type spelling to its IDL type name. Unknown
// spellings pass through unchanged so the document stays generatable for
// types the table does not yet know.
func MapType(spelling string) string {
	spelling = strings.TrimSpace(spelling)
	if mapped, ok := rustTypes[spelling]; ok {
		return mapped
	}
	return spelling
}
