package commands_test

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyup-dev/tallyup/internal/config"
	"github.com/tallyup-dev/tallyup/internal/importlog"
	"github.com/tallyup-dev/tallyup/internal/ledger"
)

const smsExport = `[
  {"_id": 1, "body": "Bank of Ceylon ... POS/ATM Transaction ... Rs. 1,250.00 at SUPER MART. Thank you.", "date": 1741940000000},
  {"_id": 2, "body": "123456 is your OTP. Do not share.", "date": 1741940060000},
  {"_id": 3, "body": "CEB: Your electricity bill for Acc 4102233 is Rs. 3,450.00.", "date": 1741940120000}
]`

var txIDPattern = regexp.MustCompile(`tx_[0-9a-f-]{36}`)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestReceipt_TextFile(t *testing.T) {
	dir := initRepo(t)
	path := filepath.Join(t.TempDir(), "receipt.txt")
	writeFile(t, path, "SUPER MART\nTotal Rs. 2,450.50\nThank you for shopping")

	out, err := runTallyup(t, "receipt", path, "--repo", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "2450.50")
	assert.Contains(t, out, "shopping")
	assert.Contains(t, out, "SUPER MART")

	out, err = runTallyup(t, "tx", "list", "--repo", dir)
	require.NoError(t, err, out)
	assert.Empty(t, strings.TrimSpace(out), "nothing saved without --save")
}

func TestReceipt_SaveWithEdits(t *testing.T) {
	dir := initRepo(t)
	path := filepath.Join(t.TempDir(), "receipt.txt")
	writeFile(t, path, "blurry\n???")

	out, err := runTallyup(t, "receipt", path, "--repo", dir, "--save")
	require.Error(t, err, "no amount found and none supplied")
	assert.Contains(t, out, "amount required")

	out, err = runTallyup(t, "receipt", path, "--repo", dir, "--save", "--amount", "75.5", "--category", "food", "--title", "Corner cafe")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Saved tx_")

	out, err = runTallyup(t, "tx", "list", "--repo", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "75.50")
	assert.Contains(t, out, "Corner cafe")

	entries, err := importlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, importlog.SourceReceipt, entries[0].Source)
	assert.Equal(t, importlog.ActionCommitted, entries[0].Action)
}

func TestReceipt_ImageWithoutOCR(t *testing.T) {
	dir := initRepo(t)
	cfgPath := filepath.Join(dir, config.FileName)
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	cfg.OCR.Provider = config.ProviderNone
	require.NoError(t, config.Save(cfgPath, cfg))

	path := filepath.Join(t.TempDir(), "receipt.png")
	writeFile(t, path, "\x89PNG")

	out, err := runTallyup(t, "receipt", path, "--repo", dir)
	require.Error(t, err)
	assert.Contains(t, out, "ocr unavailable")
}

func TestSMSImport_ScanAndSave(t *testing.T) {
	dir := initRepo(t)
	writeFile(t, filepath.Join(dir, "import", "inbox.json"), smsExport)

	out, err := runTallyup(t, "sms", "import", "--repo", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "3 messages, 2 drafts, 1 otp, 0 unrecognized")
	_, err = os.Stat(filepath.Join(dir, "import", "inbox.json"))
	assert.NoError(t, err, "preview leaves the file in import/")

	out, err = runTallyup(t, "sms", "import", "--repo", dir, "--save")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Saved 2 transactions (0 already imported)")
	_, err = os.Stat(filepath.Join(dir, "import", "processed", "inbox.json"))
	assert.NoError(t, err, "saved file moves to import/processed/")

	out, err = runTallyup(t, "tx", "list", "--repo", dir)
	require.NoError(t, err, out)
	assert.Len(t, txIDPattern.FindAllString(out, -1), 2)
	assert.Contains(t, out, "utilities")
}

func TestSMSImport_FileIsIdempotent(t *testing.T) {
	dir := initRepo(t)
	path := filepath.Join(t.TempDir(), "export.json")
	writeFile(t, path, smsExport)

	out, err := runTallyup(t, "sms", "import", path, "--repo", dir, "--save")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Saved 2 transactions")

	out, err = runTallyup(t, "sms", "import", path, "--repo", dir, "--save")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Saved 0 transactions (2 already imported)")

	_, err = os.Stat(path)
	assert.NoError(t, err, "files outside import/ are not moved")

	entries, err := importlog.Read(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestSMSImport_CSVFormatFlag(t *testing.T) {
	dir := initRepo(t)
	path := filepath.Join(t.TempDir(), "export.txt")
	writeFile(t, path, "id,date,body\na1,2025-03-14T09:30:00Z,\"HNB A/C ***4455 POS txn LKR 3,480.50 at KEELLS\"\n")

	out, err := runTallyup(t, "sms", "import", path, "--repo", dir, "--format", "csv", "--json")
	require.NoError(t, err, out)
	assert.Contains(t, out, `"amount": "3480.50"`)
	assert.Contains(t, out, `"source_ref": "a1"`)
}

func TestTxDelete(t *testing.T) {
	dir := initRepo(t)
	path := filepath.Join(t.TempDir(), "receipt.txt")
	writeFile(t, path, "SUPER MART\nTotal Rs. 99.00")

	out, err := runTallyup(t, "receipt", path, "--repo", dir, "--save")
	require.NoError(t, err, out)
	txID := txIDPattern.FindString(out)
	require.NotEmpty(t, txID)

	out, err = runTallyup(t, "tx", "delete", txID, "--repo", dir)
	require.NoError(t, err, out)

	_, err = runTallyup(t, "tx", "delete", txID, "--repo", dir)
	assert.Error(t, err, "second delete finds nothing")

	_, err = runTallyup(t, "tx", "delete", "not-an-id", "--repo", dir)
	assert.Error(t, err)
}

func TestBudgetCommands(t *testing.T) {
	dir := initRepo(t)

	out, err := runTallyup(t, "budget", "set", "food", "100", "--repo", dir)
	require.NoError(t, err, out)

	_, err = runTallyup(t, "budget", "set", "yachts", "100", "--repo", dir)
	assert.Error(t, err)

	limits := filepath.Join(t.TempDir(), "limits.csv")
	writeFile(t, limits, "category,amount\ntransport,40\nshopping,250.5\n")
	out, err = runTallyup(t, "budget", "import", limits, "--repo", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Imported 2 budgets")

	out, err = runTallyup(t, "budget", "list", "--repo", dir)
	require.NoError(t, err, out)
	assert.Equal(t, "category,amount\nfood,100.00\ntransport,40.00\nshopping,250.50\n", out)

	receipt := filepath.Join(t.TempDir(), "receipt.txt")
	writeFile(t, receipt, "blurry")
	out, err = runTallyup(t, "receipt", receipt, "--repo", dir, "--save", "--amount", "120", "--category", "food")
	require.NoError(t, err, out)

	out, err = runTallyup(t, "budget", "report", "--repo", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "OVER")
	assert.Contains(t, out, "1 categories over budget by 20.00")

	_, err = runTallyup(t, "budget", "delete", "food", "--repo", dir)
	require.NoError(t, err)
	_, err = runTallyup(t, "budget", "delete", "food", "--repo", dir)
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	dir := initRepo(t)
	writeFile(t, filepath.Join(dir, "import", "inbox.json"), smsExport)
	out, err := runTallyup(t, "sms", "import", "--repo", dir, "--save")
	require.NoError(t, err, out)

	path := filepath.Join(t.TempDir(), "ledger.csv")
	out, err = runTallyup(t, "export", path, "--repo", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Exported 2 transactions")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	txs, err := ledger.ReadTransactions(f)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}
