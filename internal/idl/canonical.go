package idl

import "strings"

// entryPoints is the canonical ordered list of entry-point function names
// the assembler extracts. Instructions appear in the generated document in
// exactly this order.
var entryPoints = []string{
	"initialize_position",
	"initialize_treasury",
	"claim_fees",
	"initialize_global_distribution",
	"initialize_policy",
	"start_daily_distribution",
	"process_investor_page",
	"complete_daily_distribution",
}

// canonicalInstructions is the hand-curated table of account lists and
// argument shapes, keyed by camelCase instruction name. This table, not the
// extracted signature, is what lands in the document; extracted data feeds
// the cross-check (see CrossCheck).
var canonicalInstructions = map[string]Instruction{
	"initializePosition": {
		Name: "initializePosition",
		Accounts: []AccountRef{
			{Name: "authority", IsMut: true, IsSigner: true},
			{Name: "vault"},
			{Name: "positionOwnerPda"},
			{Name: "pool", IsMut: true},
			{Name: "position", IsMut: true, IsSigner: true},
			{Name: "positionMetadata", IsMut: true},
			{Name: "quoteMint"},
			{Name: "systemProgram"},
			{Name: "tokenProgram"},
			{Name: "token2022Program"},
		},
		Args: []Arg{},
	},
	"initializeTreasury": {
		Name: "initializeTreasury",
		Accounts: []AccountRef{
			{Name: "authority", IsMut: true, IsSigner: true},
			{Name: "treasury", IsMut: true},
			{Name: "treasuryAta", IsMut: true},
			{Name: "quoteMint"},
			{Name: "systemProgram"},
			{Name: "tokenProgram"},
			{Name: "associatedTokenProgram"},
		},
		Args: []Arg{
			{Name: "quoteMint", Type: "publicKey"},
		},
	},
	"claimFees": {
		Name: "claimFees",
		Accounts: []AccountRef{
			{Name: "authority", IsMut: true, IsSigner: true},
			{Name: "positionOwnerPda"},
			{Name: "position", IsMut: true},
			{Name: "pool", IsMut: true},
			{Name: "treasuryAta", IsMut: true},
			{Name: "quoteMint"},
			{Name: "tokenProgram"},
		},
		Args: []Arg{},
	},
	"initializeGlobalDistribution": {
		Name: "initializeGlobalDistribution",
		Accounts: []AccountRef{
			{Name: "authority", IsMut: true, IsSigner: true},
			{Name: "globalDistributionState", IsMut: true},
			{Name: "quoteMint"},
			{Name: "systemProgram"},
		},
		Args: []Arg{
			{Name: "quoteMint", Type: "publicKey"},
		},
	},
	"initializePolicy": {
		Name: "initializePolicy",
		Accounts: []AccountRef{
			{Name: "authority", IsMut: true, IsSigner: true},
			{Name: "policyState", IsMut: true},
			{Name: "quoteMint"},
			{Name: "systemProgram"},
		},
		Args: []Arg{
			{Name: "investorFeeShareBps", Type: "u64"},
			{Name: "dailyCapLamports", Type: "u64"},
			{Name: "minPayoutLamports", Type: "u64"},
			{Name: "y0TotalAllocation", Type: "u64"},
		},
	},
	"startDailyDistribution": {
		Name: "startDailyDistribution",
		Accounts: []AccountRef{
			{Name: "authority", IsMut: true, IsSigner: true},
			{Name: "dailyDistributionState", IsMut: true},
			{Name: "globalDistributionState", IsMut: true},
			{Name: "policyState"},
			{Name: "systemProgram"},
		},
		Args: []Arg{
			{Name: "distributionDay", Type: "i64"},
		},
	},
	"processInvestorPage": {
		Name: "processInvestorPage",
		Accounts: []AccountRef{
			{Name: "authority", IsMut: true, IsSigner: true},
			{Name: "dailyDistributionState", IsMut: true},
			{Name: "globalDistributionState", IsMut: true},
			{Name: "policyState"},
		},
		Args: []Arg{},
	},
	"completeDailyDistribution": {
		Name: "completeDailyDistribution",
		Accounts: []AccountRef{
			{Name: "authority", IsMut: true, IsSigner: true},
			{Name: "dailyDistributionState", IsMut: true},
			{Name: "globalDistributionState", IsMut: true},
		},
		Args: []Arg{},
	},
}

// recordTypes returns the persisted account layouts, in document order.
// A fresh slice is returned so callers cannot mutate the table.
func recordTypes() []AccountType {
	return []AccountType{
		{
			Name: "PositionMetadata",
			Type: StructType{Kind: "struct", Fields: []Field{
				{Name: "vault", Type: "publicKey"},
				{Name: "quoteMint", Type: "publicKey"},
				{Name: "positionOwner", Type: "publicKey"},
				{Name: "bump", Type: "u8"},
			}},
		},
		{
			Name: "Treasury",
			Type: StructType{Kind: "struct", Fields: []Field{
				{Name: "authority", Type: "publicKey"},
				{Name: "quoteMint", Type: "publicKey"},
				{Name: "bump", Type: "u8"},
			}},
		},
		{
			Name: "PolicyState",
			Type: StructType{Kind: "struct", Fields: []Field{
				{Name: "authority", Type: "publicKey"},
				{Name: "quoteMint", Type: "publicKey"},
				{Name: "investorFeeShareBps", Type: "u64"},
				{Name: "dailyCapLamports", Type: "u64"},
				{Name: "minPayoutLamports", Type: "u64"},
				{Name: "y0TotalAllocation", Type: "u64"},
				{Name: "bump", Type: "u8"},
			}},
		},
		{
			Name: "GlobalDistributionState",
			Type: StructType{Kind: "struct", Fields: []Field{
				{Name: "authority", Type: "publicKey"},
				{Name: "quoteMint", Type: "publicKey"},
				{Name: "totalDistributed", Type: "u64"},
				{Name: "lastDistributionDay", Type: "i64"},
				{Name: "bump", Type: "u8"},
			}},
		},
		{
			Name: "DailyDistributionState",
			Type: StructType{Kind: "struct", Fields: []Field{
				{Name: "distributionDay", Type: "i64"},
				{Name: "totalAmount", Type: "u64"},
				{Name: "processedInvestors", Type: "u32"},
				{Name: "isComplete", Type: "bool"},
				{Name: "bump", Type: "u8"},
			}},
		},
	}
}

// canonicalInstruction returns a copy of the table entry for name, with
// slices cloned so document assembly never aliases the table.
func canonicalInstruction(name string) (Instruction, bool) {
	entry, ok := canonicalInstructions[name]
	if !ok {
		return Instruction{}, false
	}
	inst := Instruction{
		Name:     entry.Name,
		Accounts: make([]AccountRef, len(entry.Accounts)),
		Args:     make([]Arg, len(entry.Args)),
	}
	copy(inst.Accounts, entry.Accounts)
	copy(inst.Args, entry.Args)
	return inst, true
}

// camelCase converts a snake_case identifier to camelCase, the naming used
// by instruction and account entries in the generated document.
func camelCase(s string) string {
	parts := strings.Split(s, "_")
	var b strings.Builder
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == 0 {
			b.WriteString(part)
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
