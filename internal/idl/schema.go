package idl

import (
	"log/slog"
	"os"
	"strings"
)

const deriveAccounts = "#[derive(Accounts)]"

// ExtractSchema returns the account slots declared by the account-schema
// struct named schemaName, one AccountRef per public field in declaration
// order. A missing or malformed struct yields an empty slice, never an
// error: callers treat that as "no schema information available".
//
// Mutability detection is struct-wide: if any field in the body carries an
// #[account(mut ...)] attribute, every field reports IsMut. This is a known
// coarse approximation; a correct design would read each field's own
// preceding attribute.
func ExtractSchema(fileText, schemaName string) []AccountRef {
	body, ok := structBody(fileText, schemaName)
	if !ok {
		slog.Debug("account schema not found", "struct", schemaName)
		return []AccountRef{}
	}

	isMut := strings.Contains(body, "#[account(mut")

	accounts := []AccountRef{}
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "pub ") {
			continue
		}
		name, typ, found := strings.Cut(line[len("pub "):], ":")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" || strings.ContainsAny(name, " \t") {
			continue
		}
		accounts = append(accounts, AccountRef{
			Name:     name,
			IsMut:    isMut,
			IsSigner: strings.Contains(typ, "Signer"),
		})
	}
	return accounts
}

// ExtractSchemaFile reads path and extracts schemaName from its contents.
// Read failures degrade to an empty result with a warning; this extractor
// is never allowed to abort the pipeline.
func ExtractSchemaFile(path, schemaName string) []AccountRef {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("context file unreadable", "path", path, "error", err)
		return []AccountRef{}
	}
	return ExtractSchema(string(data), schemaName)
}

// structBody locates `pub struct <name>` tagged with #[derive(Accounts)]
// and returns the text between its braces. The generic lifetime parameter
// Anchor adds (`<'info>`) is skipped over.
func structBody(src, name string) (string, bool) {
	marker := "pub struct " + name
	for offset := 0; ; {
		idx := strings.Index(src[offset:], marker)
		if idx < 0 {
			return "", false
		}
		idx += offset
		offset = idx + len(marker)

		after := src[idx+len(marker):]
		if len(after) > 0 && !strings.ContainsRune("<{ \t\r\n", rune(after[0])) {
			continue // longer identifier sharing the prefix
		}
		if !taggedAccounts(src[:idx]) {
			continue
		}

		brace := strings.IndexByte(after, '{')
		if brace < 0 {
			continue
		}
		inner, _, ok := balanced(after[brace:], '{', '}')
		if !ok {
			continue
		}
		return inner, true
	}
}

// taggedAccounts reports whether the text immediately preceding a struct
// declaration carries the Accounts derive, allowing further attribute or
// doc lines in between.
func taggedAccounts(before string) bool {
	derive := strings.LastIndex(before, deriveAccounts)
	if derive < 0 {
		return false
	}
	for _, line := range strings.Split(before[derive+len(deriveAccounts):], "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#[") || strings.HasPrefix(line, "///") {
			continue
		}
		return false
	}
	return true
}
