package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"timeflow/crypto"
	"timeflow/native/bank"
)

const testScenario = `start: 1700000000
owner: admin
accounts:
  alice: "1_000_000_000"
  carol: "500_000_000"
steps:
  - op: createStream
    caller: alice
    recipient: bob
    duration: 3600
    amount: "360_000_000"
  - op: createStream
    caller: alice
    recipient: alice
    duration: 10
    amount: "1"
    expect: self_stream
  - advance: 1800
    op: withdraw
    caller: bob
    stream: 0
  - op: setPaused
    caller: alice
    paused: true
    expect: authorization
  - op: setPaused
    caller: admin
    paused: true
  - op: stake
    caller: carol
    amount: "100"
    expect: state
  - op: setPaused
    caller: admin
    paused: false
  - op: stake
    caller: carol
    amount: "100_000_000"
  - advance: 86400
    op: claim
    caller: carol
  - op: cancel
    caller: alice
    stream: 0
`

func writeFixture(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReplayScenario(t *testing.T) {
	dir := t.TempDir()
	owner := crypto.AccountString([20]byte{0x0A})
	cfgPath := writeFixture(t, dir, "timeflow.toml", fmt.Sprintf("Owner = %q\nDataDir = %q\n\n[Log]\nFile = %q\n",
		owner, filepath.Join(dir, "data"), filepath.Join(dir, "logs", "timeflow.log")))
	scPath := writeFixture(t, dir, "scenario.yaml", testScenario)

	var stdout, stderr bytes.Buffer
	code := run([]string{"replay", "--config", cfgPath, "--scenario", scPath}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("replay exit %d: %s\n%s", code, stderr.String(), stdout.String())
	}
	var report replayReport
	if err := json.Unmarshal(stdout.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, stdout.String())
	}
	if !report.Solvent || report.FailedExpected != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.TotalStreams != 1 || report.TotalStaked != "100000000" || !report.VaultActive {
		t.Fatalf("unexpected totals %+v", report)
	}
	if report.FeesCollected != "360000" {
		t.Fatalf("unexpected fees %s", report.FeesCollected)
	}
	if report.Steps[2].Result != "179820000" {
		t.Fatalf("unexpected withdraw result %q", report.Steps[2].Result)
	}
	if report.JournalEvents == 0 {
		t.Fatalf("expected journaled events")
	}
	if _, err := os.Stat(filepath.Join(dir, "data", "journal")); err != nil {
		t.Fatalf("journal not created: %v", err)
	}

	// A second replay appends to the same journal and lands on the same root.
	stdout.Reset()
	if code := run([]string{"replay", "--config", cfgPath, "--scenario", scPath}, &stdout, &stderr); code != 0 {
		t.Fatalf("second replay exit %d: %s", code, stderr.String())
	}
	var second replayReport
	if err := json.Unmarshal(stdout.Bytes(), &second); err != nil {
		t.Fatalf("decode second report: %v", err)
	}
	if second.StateRoot == "" || second.StateRoot != report.StateRoot {
		t.Fatalf("replay not deterministic: %s vs %s", report.StateRoot, second.StateRoot)
	}
}

func TestReplayReportsUnmetExpectations(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFixture(t, dir, "timeflow.toml", fmt.Sprintf("Owner = %q\n", crypto.AccountString([20]byte{0x0A})))
	scPath := writeFixture(t, dir, "scenario.yaml", `start: 1000
accounts:
  alice: "10"
steps:
  - op: createStream
    caller: alice
    recipient: bob
    duration: 10
    amount: "100"
`)
	var stdout, stderr bytes.Buffer
	if code := run([]string{"replay", "--ephemeral", "--config", cfgPath, "--scenario", scPath}, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit 2, got %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "insufficient_balance") {
		t.Fatalf("expected insufficient balance code in report: %s", stdout.String())
	}
}

func TestReplayRejectsVaultAccountAsParty(t *testing.T) {
	dir := t.TempDir()
	module := crypto.AccountString(bank.VaultAccount())
	cfgPath := writeFixture(t, dir, "timeflow.toml", fmt.Sprintf("Owner = %q\n", crypto.AccountString([20]byte{0x0A})))
	scPath := writeFixture(t, dir, "scenario.yaml", fmt.Sprintf(`start: 1000
accounts:
  alice: "1_000_000"
steps:
  - op: createStream
    caller: alice
    recipient: bob
    duration: 100
    amount: "500_000"
  - op: stake
    caller: %[1]s
    amount: "1_000_000_000"
    expect: module_account
  - op: createStream
    caller: %[1]s
    recipient: bob
    duration: 100
    amount: "100_000"
    expect: module_account
  - op: createStream
    caller: alice
    recipient: %[1]s
    duration: 100
    amount: "100_000"
    expect: validation
`, module))
	var stdout, stderr bytes.Buffer
	if code := run([]string{"replay", "--ephemeral", "--config", cfgPath, "--scenario", scPath}, &stdout, &stderr); code != 0 {
		t.Fatalf("replay exit %d: %s\n%s", code, stderr.String(), stdout.String())
	}
	var report replayReport
	if err := json.Unmarshal(stdout.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if !report.Solvent || report.TotalStaked != "0" || report.FeesCollected != "500" || report.TotalStreams != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestReplayArgValidation(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"replay"}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "--scenario is required") {
		t.Fatalf("unexpected stderr %q", stderr.String())
	}
	stderr.Reset()
	if code := run([]string{"bogus"}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit 1 for unknown command")
	}
	if code := run(nil, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit 1 without command")
	}
}

func TestAddressCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"address", "--label", "alice"}, &stdout, &stderr); code != 0 {
		t.Fatalf("label exit %d: %s", code, stderr.String())
	}
	encoded := strings.TrimSpace(stdout.String())
	want := crypto.AccountString(crypto.DeriveAccount(scenarioAccountPrefix + "alice"))
	if encoded != want {
		t.Fatalf("label mismatch %s != %s", encoded, want)
	}

	stdout.Reset()
	if code := run([]string{"address", "--decode", encoded}, &stdout, &stderr); code != 0 {
		t.Fatalf("decode exit %d: %s", code, stderr.String())
	}
	hexAddr := strings.TrimSpace(stdout.String())
	stdout.Reset()
	if code := run([]string{"address", "--hex", hexAddr}, &stdout, &stderr); code != 0 {
		t.Fatalf("hex exit %d: %s", code, stderr.String())
	}
	if strings.TrimSpace(stdout.String()) != encoded {
		t.Fatalf("hex round trip mismatch")
	}
	if code := run([]string{"address"}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit 1 without flags")
	}
}

func TestKeygenWritesKeystore(t *testing.T) {
	out := filepath.Join(t.TempDir(), "owner.keystore")
	t.Setenv("TIMEFLOW_TEST_PASSPHRASE", "correct horse")
	var stdout, stderr bytes.Buffer
	if code := run([]string{"keygen", "--out", out, "--passphrase-env", "TIMEFLOW_TEST_PASSPHRASE"}, &stdout, &stderr); code != 0 {
		t.Fatalf("keygen exit %d: %s", code, stderr.String())
	}
	key, err := crypto.LoadFromKeystore(out, "correct horse")
	if err != nil {
		t.Fatalf("load keystore: %v", err)
	}
	if got := strings.TrimSpace(stdout.String()); got != key.Address().String() {
		t.Fatalf("printed %q, keystore holds %s", got, key.Address())
	}
	if strings.Contains(stderr.String(), "correct horse") || strings.Contains(stderr.String(), "passphrase") {
		t.Fatalf("passphrase leaked to logs: %s", stderr.String())
	}
	if !strings.Contains(stderr.String(), `"message":"generated key"`) || !strings.Contains(stderr.String(), key.Address().String()) {
		t.Fatalf("unexpected keygen log: %s", stderr.String())
	}
	if code := run([]string{"keygen"}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit 1 without --out")
	}
}
