package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFixtureProgram lays out a minimal program crate and returns its root.
func writeFixtureProgram(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	libRS := `
declare_id!("5c7hSgUxDM1NKAr6nTVpcBpLypdeh6RX2paQueS2Z3Lc");

#[program]
pub mod meteora_fee_router {
    use super::*;

    pub fn claim_fees(ctx: Context<ClaimFees>) -> Result<()> {
        instructions::claim_fees(ctx)
    }

    pub fn initialize_policy(
        ctx: Context<InitializePolicy>,
        investor_fee_share_bps: u64,
        daily_cap_lamports: u64,
        min_payout_lamports: u64,
        y0_total_allocation: u64,
    ) -> Result<()> {
        instructions::initialize_policy(ctx)
    }
}
`
	contextsRS := `
#[derive(Accounts)]
pub struct InitializePolicy<'info> {
    #[account(mut)]
    pub authority: Signer<'info>,
    pub policy_state: Account<'info, PolicyState>,
    pub quote_mint: Account<'info, Mint>,
    pub system_program: Program<'info, System>,
}
`
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "lib.rs"), []byte(libRS), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "contexts.rs"), []byte(contextsRS), 0o644))
	return dir
}

func TestGenerate(t *testing.T) {
	programDir := writeFixtureProgram(t)
	output := filepath.Join(t.TempDir(), "idl", "meteora_fee_router.json")

	opts := &GenerateOptions{
		ProgramDir:     programDir,
		EntryFile:      DefaultEntryFile,
		Output:         output,
		Name:           DefaultName,
		DefaultAddress: DefaultAddress,
		ContextFiles:   []string{"src/contexts.rs"},
	}

	var status bytes.Buffer
	require.NoError(t, Generate(opts, &status))
	assert.Contains(t, status.String(), "2 instructions")
	assert.Contains(t, status.String(), output)

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	var doc struct {
		Version      string `json:"version"`
		Name         string `json:"name"`
		Instructions []struct {
			Name string `json:"name"`
		} `json:"instructions"`
		Metadata struct {
			Address string `json:"address"`
			Origin  string `json:"origin"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "0.1.0", doc.Version)
	assert.Equal(t, "meteora_fee_router", doc.Name)
	require.Len(t, doc.Instructions, 2)
	assert.Equal(t, "claimFees", doc.Instructions[0].Name)
	assert.Equal(t, "initializePolicy", doc.Instructions[1].Name)
	assert.Equal(t, "5c7hSgUxDM1NKAr6nTVpcBpLypdeh6RX2paQueS2Z3Lc", doc.Metadata.Address)
	assert.Equal(t, "custom_generator", doc.Metadata.Origin)
}

func TestGenerateOverwritesOutput(t *testing.T) {
	programDir := writeFixtureProgram(t)
	output := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, os.WriteFile(output, []byte("stale"), 0o644))

	opts := &GenerateOptions{
		ProgramDir:     programDir,
		EntryFile:      DefaultEntryFile,
		Output:         output,
		Name:           DefaultName,
		DefaultAddress: DefaultAddress,
		ContextFiles:   []string{"src/contexts.rs"},
	}
	require.NoError(t, Generate(opts, &bytes.Buffer{}))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
}

func TestGenerateMissingEntryFile(t *testing.T) {
	opts := &GenerateOptions{
		ProgramDir:     t.TempDir(),
		EntryFile:      DefaultEntryFile,
		Output:         filepath.Join(t.TempDir(), "out.json"),
		Name:           DefaultName,
		DefaultAddress: DefaultAddress,
	}

	err := Generate(opts, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read program source")
}

func TestGenerateStrictFailsOnDivergence(t *testing.T) {
	programDir := writeFixtureProgram(t)

	// Drop an account from the context struct so it diverges from the
	// canonical table.
	divergent := `
#[derive(Accounts)]
pub struct InitializePolicy<'info> {
    #[account(mut)]
    pub authority: Signer<'info>,
    pub quote_mint: Account<'info, Mint>,
}
`
	require.NoError(t, os.WriteFile(filepath.Join(programDir, "src", "contexts.rs"), []byte(divergent), 0o644))

	opts := &GenerateOptions{
		ProgramDir:     programDir,
		EntryFile:      DefaultEntryFile,
		Output:         filepath.Join(t.TempDir(), "out.json"),
		Name:           DefaultName,
		DefaultAddress: DefaultAddress,
		ContextFiles:   []string{"src/contexts.rs"},
		Strict:         true,
	}

	err := Generate(opts, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "divergence")
}

func TestLoadConfigFile(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantErr    bool
	}{
		{"no config file", "", false},
		{"nonexistent config file", "/nonexistent/idlgen.yml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &GenerateOptions{ConfigPath: tt.configPath}
			err := loadConfigFile(opts)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfigFileOverlay(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".idlgen.yml")
	config := `
idl:
  program-dir: programs/custom
  output: build/idl.json
  name: custom_program
  context-files:
    - src/contexts.rs
`
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0o644))

	opts := &GenerateOptions{
		ProgramDir:     DefaultProgramDir,
		EntryFile:      DefaultEntryFile,
		Output:         "explicit.json", // set by flag, must survive
		Name:           DefaultName,
		DefaultAddress: DefaultAddress,
		ContextFiles:   append([]string(nil), DefaultContextFiles...),
		ConfigPath:     configPath,
	}
	require.NoError(t, loadConfigFile(opts))

	assert.Equal(t, "programs/custom", opts.ProgramDir)
	assert.Equal(t, "explicit.json", opts.Output)
	assert.Equal(t, "custom_program", opts.Name)
	assert.Equal(t, DefaultEntryFile, opts.EntryFile)
	assert.Equal(t, []string{"src/contexts.rs"}, opts.ContextFiles)
}

func TestLoadConfigFileInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".idlgen.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("idl: ["), 0o644))

	opts := &GenerateOptions{ConfigPath: configPath}
	assert.Error(t, loadConfigFile(opts))
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "idlgen", cmd.Use)

	generate, _, err := cmd.Find([]string{"generate"})
	require.NoError(t, err)
	assert.Equal(t, "generate", generate.Use)
}
