package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyup-dev/tallyup/internal/bankrules"
	"github.com/tallyup-dev/tallyup/internal/extract"
	"github.com/tallyup-dev/tallyup/internal/ocr"
	"github.com/tallyup-dev/tallyup/internal/pipeline"
	"github.com/tallyup-dev/tallyup/internal/store/memory"
)

var now = time.Date(2025, 3, 20, 18, 0, 0, 0, time.UTC)

type fakeOCR struct {
	text string
	err  error
}

func (f fakeOCR) ExtractText(context.Context, []byte) (string, error) {
	return f.text, f.err
}

func newTestServer(t *testing.T, ex ocr.Extractor) (*Server, *bytes.Buffer) {
	t.Helper()
	clock := func() time.Time { return now }
	var logs bytes.Buffer
	return New(Deps{
		Store:       memory.New(),
		Receipts:    pipeline.NewReceiptPipeline(extract.New(extract.DefaultOptions()), pipeline.WithClock(clock)),
		SMS:         pipeline.NewSMSPipeline(bankrules.DefaultMatcher()),
		OCR:         ex,
		DefaultUser: "u-1",
		MaxMessages: 10,
		OCRTimeout:  time.Second,
		Log:         zerolog.New(&logs),
		Now:         clock,
	}), &logs
}

func do(t *testing.T, s *Server, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestAnalyzeReceipt(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, "POST", "/api/receipts/analyze", `{"text":"SUPER MART\nTotal Rs. 2,450.50\nThank you for shopping"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	d := decode[draftJSON](t, rec)
	require.NotNil(t, d.Amount)
	assert.Equal(t, "2450.50", *d.Amount)
	assert.Equal(t, "expense", d.Type)
	assert.Equal(t, "shopping", d.Category)
	assert.Equal(t, "SUPER MART", d.Title)
	assert.Equal(t, "high", d.Confidence)
}

func TestAnalyzeReceipt_NoAmountIsNull(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, "POST", "/api/receipts/analyze", `{"text":"blurry"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"amount":null`)
}

func TestAnalyzeReceipt_BadRequests(t *testing.T) {
	s, _ := newTestServer(t, nil)
	tests := []struct {
		name string
		body string
	}{
		{"empty text", `{"text":"  "}`},
		{"malformed", `{"text":`},
		{"unknown field", `{"text":"x","image":"y"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, "POST", "/api/receipts/analyze", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestScanReceipt(t *testing.T) {
	tests := []struct {
		name   string
		ocr    ocr.Extractor
		body   string
		status int
	}{
		{"ok", fakeOCR{text: "CITY PHARMACY\nTotal Rs. 980.00"}, "png-bytes", http.StatusOK},
		{"empty body", fakeOCR{text: "x"}, "", http.StatusBadRequest},
		{"no text", fakeOCR{err: ocr.ErrNoText}, "png-bytes", http.StatusUnprocessableEntity},
		{"disabled", nil, "png-bytes", http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, tt.ocr)
			rec := do(t, s, "POST", "/api/receipts/scan", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	s, _ := newTestServer(t, fakeOCR{text: "CITY PHARMACY\nTotal Rs. 980.00"})
	resp := decode[scanResponse](t, do(t, s, "POST", "/api/receipts/scan", "png-bytes"))
	assert.Equal(t, "CITY PHARMACY\nTotal Rs. 980.00", resp.Text)
	require.NotNil(t, resp.Draft.Amount)
	assert.Equal(t, "980.00", *resp.Draft.Amount)
}

const smsBatch = `{"messages":[
	{"id":"1","body":"Bank of Ceylon ... POS/ATM Transaction ... Rs. 1,250.00 at SUPER MART. Thank you.","date":"2025-03-14T09:30:00Z"},
	{"id":"2","body":"123456 is your OTP. Do not share."},
	{"id":"3","body":"Happy new year from your favourite store!"}
]%s}`

func TestImportSMS(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, "POST", "/api/sms/import", strings.Replace(smsBatch, "%s", "", 1))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[smsImportResponse](t, rec)
	require.Len(t, resp.Drafts, 1)
	assert.Equal(t, pipeline.SMSStats{Scanned: 3, Drafted: 1, OTP: 1, Unrecognized: 1}, resp.Stats)
	assert.Equal(t, "1", resp.Drafts[0].SourceRef)
	assert.Equal(t, "2025-03-14T09:30:00Z", resp.Drafts[0].Date)
	assert.Empty(t, resp.Committed)

	list := decode[[]transactionJSON](t, do(t, s, "GET", "/api/transactions", ""))
	assert.Empty(t, list)
}

func TestImportSMS_SaveIsIdempotent(t *testing.T) {
	s, _ := newTestServer(t, nil)
	body := strings.Replace(smsBatch, "%s", `,"save":true`, 1)

	first := decode[smsImportResponse](t, do(t, s, "POST", "/api/sms/import", body))
	require.Len(t, first.Committed, 1)
	assert.Equal(t, "1250.00", first.Committed[0].Amount)
	assert.Zero(t, first.Duplicates)

	second := decode[smsImportResponse](t, do(t, s, "POST", "/api/sms/import", body))
	assert.Empty(t, second.Committed)
	assert.Equal(t, 1, second.Duplicates)

	list := decode[[]transactionJSON](t, do(t, s, "GET", "/api/transactions", ""))
	assert.Len(t, list, 1)
}

func TestImportSMS_BadMessages(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, "POST", "/api/sms/import", `{"messages":[{"id":"","body":"x"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, "POST", "/api/sms/import", `{"messages":[{"id":"1","body":"x","date":"last week"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportSMS_Limit(t *testing.T) {
	s, _ := newTestServer(t, nil)
	var msgs []string
	for i := 0; i < 25; i++ {
		msgs = append(msgs, `{"id":"`+string(rune('a'+i))+`","body":"hello"}`)
	}
	resp := decode[smsImportResponse](t, do(t, s, "POST", "/api/sms/import", `{"messages":[`+strings.Join(msgs, ",")+`]}`))
	assert.Equal(t, 10, resp.Stats.Scanned)
}

func TestTransactionsCRUD(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := do(t, s, "POST", "/api/transactions",
		`{"amount":"1250.5","type":"expense","category":"food","title":"Lunch","date":"2025-03-14T12:00:00Z"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[transactionJSON](t, rec)
	assert.Equal(t, "1250.50", created.Amount)
	assert.NotEmpty(t, created.ID)

	got := decode[transactionJSON](t, do(t, s, "GET", "/api/transactions/"+created.ID, ""))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Lunch", got.Title)

	rec = do(t, s, "PUT", "/api/transactions/"+created.ID, `{"category":"entertainment","note":"with team"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[transactionJSON](t, rec)
	assert.Equal(t, "entertainment", updated.Category)
	assert.Equal(t, "with team", updated.Note)
	assert.Equal(t, "1250.50", updated.Amount)

	rec = do(t, s, "DELETE", "/api/transactions/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, "GET", "/api/transactions/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTransaction_Validation(t *testing.T) {
	s, _ := newTestServer(t, nil)
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"missing amount", `{"type":"expense","category":"food","title":"x"}`, http.StatusUnprocessableEntity},
		{"income category", `{"amount":"10","type":"income","category":"food","title":"x"}`, http.StatusUnprocessableEntity},
		{"unknown category", `{"amount":"10","type":"expense","category":"yachts","title":"x"}`, http.StatusUnprocessableEntity},
		{"bad amount", `{"amount":"ten","type":"expense","category":"food","title":"x"}`, http.StatusBadRequest},
		{"bad date", `{"amount":"10","type":"expense","category":"food","title":"x","date":"soon"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, "POST", "/api/transactions", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	rec := do(t, s, "POST", "/api/transactions", `{"amount":"10","type":"income","category":"food","title":"x"}`)
	e := decode[errorJSON](t, rec)
	assert.Equal(t, "validation failed", e.Error)
	require.NotEmpty(t, e.Details)
	assert.Contains(t, e.Details[0], "income_category")
}

func TestCreateTransaction_DuplicateSourceRef(t *testing.T) {
	s, _ := newTestServer(t, nil)
	body := `{"amount":"10","type":"expense","category":"food","title":"x","source_ref":"sms-9"}`
	require.Equal(t, http.StatusCreated, do(t, s, "POST", "/api/transactions", body).Code)
	assert.Equal(t, http.StatusConflict, do(t, s, "POST", "/api/transactions", body).Code)
}

func TestTransactions_UserScoping(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, "POST", "/api/transactions", `{"amount":"10","type":"expense","category":"food","title":"x"}`,
		UserHeader, "alice")
	created := decode[transactionJSON](t, rec)

	assert.Equal(t, http.StatusNotFound, do(t, s, "GET", "/api/transactions/"+created.ID, "", UserHeader, "bob").Code)
	assert.Equal(t, http.StatusOK, do(t, s, "GET", "/api/transactions/"+created.ID, "", UserHeader, "alice").Code)
}

func TestTransactions_InvalidID(t *testing.T) {
	s, _ := newTestServer(t, nil)
	assert.Equal(t, http.StatusBadRequest, do(t, s, "GET", "/api/transactions/nope", "").Code)
}

func TestListTransactions_Filters(t *testing.T) {
	s, _ := newTestServer(t, nil)
	for _, body := range []string{
		`{"amount":"100","type":"expense","category":"food","title":"a","date":"2025-03-02T10:00:00Z"}`,
		`{"amount":"200","type":"expense","category":"transport","title":"b","date":"2025-03-05T10:00:00Z"}`,
		`{"amount":"5000","type":"income","category":"salary","title":"c","date":"2025-02-25T10:00:00Z"}`,
	} {
		require.Equal(t, http.StatusCreated, do(t, s, "POST", "/api/transactions", body).Code)
	}

	march := decode[[]transactionJSON](t, do(t, s, "GET", "/api/transactions?month=2025-03", ""))
	require.Len(t, march, 2)
	assert.Equal(t, "b", march[0].Title)

	income := decode[[]transactionJSON](t, do(t, s, "GET", "/api/transactions?type=income", ""))
	require.Len(t, income, 1)
	assert.Equal(t, "c", income[0].Title)

	assert.Equal(t, http.StatusBadRequest, do(t, s, "GET", "/api/transactions?month=March", "").Code)
}

func TestBudgets(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := do(t, s, "PUT", "/api/budgets/food", `{"amount":"150"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, budgetJSON{Category: "food", Amount: "150.00"}, decode[budgetJSON](t, rec))

	assert.Equal(t, http.StatusBadRequest, do(t, s, "PUT", "/api/budgets/yachts", `{"amount":"1"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, "PUT", "/api/budgets/food", `{"amount":"-1"}`).Code)

	list := decode[[]budgetJSON](t, do(t, s, "GET", "/api/budgets", ""))
	assert.Equal(t, []budgetJSON{{Category: "food", Amount: "150.00"}}, list)

	do(t, s, "POST", "/api/transactions",
		`{"amount":"100","type":"expense","category":"food","title":"a","date":"2025-03-02T10:00:00Z"}`)
	do(t, s, "POST", "/api/transactions",
		`{"amount":"80","type":"expense","category":"food","title":"b","date":"2025-03-03T10:00:00Z"}`)

	rep := decode[reportJSON](t, do(t, s, "GET", "/api/budgets/report?month=2025-03", ""))
	assert.Equal(t, "2025-03", rep.Month)
	assert.Equal(t, "180.00", rep.Expenses)
	require.NotEmpty(t, rep.Lines)
	var food reportLineJSON
	for _, l := range rep.Lines {
		if l.Category == "food" {
			food = l
		}
	}
	assert.Equal(t, "180.00", food.Spent)
	assert.True(t, food.Over)
	require.NotNil(t, food.Remaining)
	assert.Equal(t, "-30.00", *food.Remaining)

	assert.Equal(t, http.StatusNoContent, do(t, s, "DELETE", "/api/budgets/food", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, "DELETE", "/api/budgets/food", "").Code)
}

func TestRequestID(t *testing.T) {
	s, logs := newTestServer(t, nil)
	rec := do(t, s, "GET", "/api/budgets", "", "X-Request-ID", "req-7")
	assert.Equal(t, "req-7", rec.Header().Get("X-Request-ID"))
	assert.Contains(t, logs.String(), `"request_id":"req-7"`)
	assert.Contains(t, logs.String(), `"status":200`)

	rec = do(t, s, "GET", "/api/budgets", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
