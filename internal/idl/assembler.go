package idl

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

const (
	// docVersion is the IDL format version stamped on every document.
	docVersion = "0.1.0"

	// originTag marks documents produced by this generator.
	originTag = "custom_generator"
)

// Config holds the knobs for one generation run. Zero values are filled by
// the CLI layer from flags with documented defaults.
type Config struct {
	// ProgramDir is the root of the program crate.
	ProgramDir string
	// ProgramName is the name stamped on the document.
	ProgramName string
	// DefaultAddress is used when the source carries no declare_id! marker.
	DefaultAddress string
	// ContextFiles are paths, relative to ProgramDir, searched for account
	// schema structs during cross-checks.
	ContextFiles []string
}

// Assembler builds one Document per run from the program's entry source.
type Assembler struct {
	cfg Config
}

// NewAssembler creates an assembler for the given configuration.
func NewAssembler(cfg Config) *Assembler {
	return &Assembler{cfg: cfg}
}

// Assemble builds the IDL document from the entry file's source text. For
// each canonical entry-point name it extracts the function signature; names
// missing from the source are skipped, not errors, so partial programs still
// produce a usable document. The accounts and argument shapes attached to
// each found instruction come from the canonical table.
func (a *Assembler) Assemble(src string) (*Document, error) {
	doc := &Document{
		Version:      docVersion,
		Name:         a.cfg.ProgramName,
		Instructions: []Instruction{},
		Accounts:     recordTypes(),
		Metadata: Metadata{
			Address: programAddress(src, a.cfg.DefaultAddress),
			Origin:  originTag,
		},
	}

	for _, entry := range entryPoints {
		extracted, found := ExtractSignature(src, entry)
		if !found {
			slog.Debug("entry point not in source, skipping", "name", entry)
			continue
		}
		inst, ok := canonicalInstruction(camelCase(entry))
		if !ok {
			// No curated entry: fall back to the extracted signature.
			inst = *extracted
			inst.Name = camelCase(entry)
		}
		doc.Instructions = append(doc.Instructions, inst)
	}

	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("document validation: %w", err)
	}
	return doc, nil
}

// Divergence records one mismatch between an instruction's canonical
// account list and the accounts extracted from its context struct.
type Divergence struct {
	Instruction string
	Detail      string
}

func (d Divergence) String() string {
	return d.Instruction + ": " + d.Detail
}

// CrossCheck compares each canonical account list against the schema
// extracted from the configured context files. The canonical table remains
// the source of truth for document content; this check only surfaces
// divergence between the two declarations so it fails loudly instead of one
// silently overriding the other. Contexts with no schema information are
// skipped with a warning.
func (a *Assembler) CrossCheck(src string) []Divergence {
	var divs []Divergence
	for _, entry := range entryPoints {
		ctxName, ok := ContextName(src, entry)
		if !ok {
			continue
		}
		canon, ok := canonicalInstruction(camelCase(entry))
		if !ok {
			continue
		}
		extracted := a.contextAccounts(ctxName)
		if len(extracted) == 0 {
			slog.Warn("no schema information for context", "context", ctxName, "instruction", canon.Name)
			continue
		}
		divs = append(divs, compareAccounts(canon, extracted)...)
	}
	return divs
}

// contextAccounts searches the configured context files for the named
// schema struct, returning the first non-empty extraction.
func (a *Assembler) contextAccounts(ctxName string) []AccountRef {
	for _, rel := range a.cfg.ContextFiles {
		refs := ExtractSchemaFile(filepath.Join(a.cfg.ProgramDir, rel), ctxName)
		if len(refs) > 0 {
			return refs
		}
	}
	return nil
}

// compareAccounts diffs account name sequences. Mutability and signer flags
// are excluded: the schema extractor's struct-wide mutability heuristic is
// too coarse to compare meaningfully.
func compareAccounts(canon Instruction, extracted []AccountRef) []Divergence {
	if len(canon.Accounts) != len(extracted) {
		return []Divergence{{
			Instruction: canon.Name,
			Detail: fmt.Sprintf("canonical lists %d accounts, context struct declares %d",
				len(canon.Accounts), len(extracted)),
		}}
	}
	var divs []Divergence
	for i, ref := range extracted {
		if got := camelCase(ref.Name); got != canon.Accounts[i].Name {
			divs = append(divs, Divergence{
				Instruction: canon.Name,
				Detail: fmt.Sprintf("account %d: canonical %q, context struct %q",
					i, canon.Accounts[i].Name, got),
			})
		}
	}
	return divs
}

// programAddress returns the quoted literal of the source's declare_id!
// marker, or fallback when the marker is absent.
func programAddress(src, fallback string) string {
	const marker = `declare_id!("`
	start := strings.Index(src, marker)
	if start < 0 {
		return fallback
	}
	rest := src[start+len(marker):]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return fallback
	}
	return rest[:end]
}
