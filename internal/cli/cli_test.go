package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ipvault/internal/core/fingerprint"
	"ipvault/internal/core/ipasset"
	"ipvault/internal/core/version"
	perr "ipvault/internal/platform/errors"
	"ipvault/internal/platform/testkit"
	orchdom "ipvault/internal/services/orchestrator/domain"
	regdom "ipvault/internal/services/registry/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloHash = fingerprint.Hash("2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824")

type fakeOrchestrator struct {
	orchdom.ServicePort
	got orchdom.FileRequest
	out orchdom.Outcome
	err error
}

func (f *fakeOrchestrator) RegisterFile(_ context.Context, in orchdom.FileRequest) (orchdom.Outcome, error) {
	f.got = in
	return f.out, f.err
}

type fakeRegistry struct {
	regdom.ServicePort
	chain []ipasset.RegisteredAsset
}

func (f *fakeRegistry) GetLineage(_ context.Context, id string) ([]ipasset.RegisteredAsset, error) {
	if id != f.chain[0].ID {
		return nil, perr.ErrNotFound
	}
	return f.chain, nil
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func withPipeline(t *testing.T, p *Pipeline) *int {
	t.Helper()
	closed := 0
	testkit.Swap(t, &openPipeline, func(context.Context) (*Pipeline, func(), error) {
		return p, func() { closed++ }, nil
	})
	return &closed
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestFingerprint_Text(t *testing.T) {
	path := writeFile(t, "hello.txt", "hello")

	out, err := run(t, "fingerprint", path)
	require.NoError(t, err)
	assert.Equal(t, string(helloHash)+"  "+path+"\n", out)
}

func TestFingerprint_JSON(t *testing.T) {
	path := writeFile(t, "hello.txt", "hello")

	out, err := run(t, "--format", "json", "fingerprint", path)
	require.NoError(t, err)

	var res FingerprintResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, helloHash, res.Hash)
	assert.Equal(t, "urn:sha256:"+string(helloHash), res.URN)
	assert.EqualValues(t, 5, res.Size)
}

func TestFingerprint_MissingFile(t *testing.T) {
	_, err := run(t, "fingerprint", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))
}

func TestRootRejectsUnknownFormat(t *testing.T) {
	_, err := run(t, "--format", "yaml", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRegister_PassesFlagsAndPrintsOutcome(t *testing.T) {
	orch := &fakeOrchestrator{out: orchdom.Outcome{
		ItemID:  "item-1",
		Trigger: orchdom.TriggerFile,
		State:   orchdom.StateRegistered,
		Storage: ipasset.StorageDescriptor{Hash: helloHash, PrimaryLocator: "ipfs://bafy"},
		Asset:   &ipasset.RegisteredAsset{ID: "0xasset", Owner: "0xowner", TxHash: "0xtx"},
	}}
	closed := withPipeline(t, &Pipeline{Orchestrator: orch})
	path := writeFile(t, "song.mp3", "hello")

	out, err := run(t, "register", path, "--title", "Song", "--type", "MUSIC", "--tags", "a,b", "--skip-upload")
	require.NoError(t, err)

	assert.Equal(t, "Song", orch.got.Title)
	assert.Equal(t, ipasset.TypeMusic, orch.got.Type)
	assert.Equal(t, []string{"a", "b"}, orch.got.Tags)
	assert.True(t, orch.got.SkipUpload)
	assert.Equal(t, "song.mp3", orch.got.Artifact.Name)
	assert.Equal(t, 1, *closed)

	assert.Contains(t, out, "state    registered")
	assert.Contains(t, out, "asset    0xasset")
	assert.Contains(t, out, "tx       0xtx")
}

func TestPrintOutcome_DegradedSlotsSorted(t *testing.T) {
	out := orchdom.Outcome{
		ItemID: "item-3",
		State:  orchdom.StateSaved,
		Storage: ipasset.StorageDescriptor{
			Hash:     helloHash,
			Failures: map[string]string{"secondary": "arweave 502", "primary": "pinata timeout", "mirror": "disabled"},
		},
	}
	for range 5 {
		var buf bytes.Buffer
		printOutcome(&buf, out)
		text := buf.String()
		m, p, s := strings.Index(text, "degraded mirror"), strings.Index(text, "degraded primary"), strings.Index(text, "degraded secondary")
		require.True(t, m >= 0 && m < p && p < s, "unsorted output:\n%s", text)
	}
}

func TestRegister_TypeFlagListsAssetTypes(t *testing.T) {
	f := NewRegisterCommand(&RootOptions{}).Flags().Lookup("type")
	require.NotNil(t, f)
	for _, typ := range ipasset.Types() {
		assert.Contains(t, f.Usage, string(typ))
	}
}

func TestRegister_FailedOutcomeIsPrintedAndReturned(t *testing.T) {
	fail := perr.New(perr.ErrorCodeUserRejected, "user rejected the request")
	orch := &fakeOrchestrator{
		out: orchdom.Outcome{
			ItemID: "item-2",
			State:  orchdom.StateFailed,
			Error:  &orchdom.OutcomeError{Code: "user_rejected", Message: "user rejected the request"},
		},
		err: fail,
	}
	withPipeline(t, &Pipeline{Orchestrator: orch})
	path := writeFile(t, "a.png", "hello")

	out, err := run(t, "--format", "json", "register", path)
	require.ErrorIs(t, err, fail)

	var got orchdom.Outcome
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, orchdom.StateFailed, got.State)
	require.NotNil(t, got.Error)
	assert.Equal(t, "user_rejected", got.Error.Code)
}

func TestRegister_PipelineErrorStopsEarly(t *testing.T) {
	testkit.Swap(t, &openPipeline, func(context.Context) (*Pipeline, func(), error) {
		return nil, nil, perr.Unavailablef("redis down")
	})
	path := writeFile(t, "a.png", "hello")

	_, err := run(t, "register", path)
	require.Error(t, err)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeUnavailable))
}

func TestLineage_Text(t *testing.T) {
	reg := &fakeRegistry{chain: []ipasset.RegisteredAsset{
		{ID: "0xchild", Metadata: ipasset.Metadata{Title: "Remix"}},
		{ID: "0xparent", Metadata: ipasset.Metadata{Title: "Original"}, Stale: true},
	}}
	withPipeline(t, &Pipeline{Registry: reg})

	out, err := run(t, "lineage", "0xchild")
	require.NoError(t, err)
	assert.Equal(t, "0  0xchild  Remix\n1  0xparent  Original (cached)\n", out)

	_, err = run(t, "lineage", "0xother")
	assert.ErrorIs(t, err, perr.ErrNotFound)
}

func TestVersion_JSON(t *testing.T) {
	out, err := run(t, "--format", "json", "version")
	require.NoError(t, err)

	var info version.BuildInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "ipvault", info.Service)
	assert.NotEmpty(t, info.Version)
}
