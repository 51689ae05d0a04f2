package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/vledger/internal/common"
	"github.com/Veraticus/vledger/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

func TestPrepareValues(t *testing.T) {
	rows := []model.TransactionRow{{
		Raw:           model.RawRow{"Histórico": "PAGAMENTO AMIL", "Valor": "10,00"},
		Description:   "PAGAMENTO AMIL",
		DebitAccount:  "310",
		CreditAccount: "537",
	}}
	result := model.NewClassificationResult([]string{"Histórico", "Valor"},
		model.ColumnRoles{Description: "Histórico", Amount: "Valor"}, rows, nil)

	values := prepareValues(result)
	require.Len(t, values, 2)
	assert.Equal(t, []any{"Histórico", "Valor", "Débito", "Crédito"}, values[0])
	assert.Equal(t, []any{"PAGAMENTO AMIL", "10,00", "310", "537"}, values[1])
}

func TestSheetRange(t *testing.T) {
	assert.Equal(t, "'Classificação'!A1", sheetRange("A1"))
}

func TestCallbackHandler(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCode   string
		wantErr    bool
	}{
		{name: "valid code", query: "?state=s1&code=abc", wantStatus: http.StatusOK, wantCode: "abc"},
		{name: "wrong state", query: "?state=other&code=abc", wantStatus: http.StatusBadRequest},
		{name: "denied", query: "?state=s1&error=access_denied", wantStatus: http.StatusBadRequest, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codeChan := make(chan string, 1)
			errChan := make(chan error, 1)
			handler := callbackHandler("s1", codeChan, errChan)

			rec := httptest.NewRecorder()
			handler(rec, httptest.NewRequest(http.MethodGet, "/callback"+tt.query, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)

			select {
			case code := <-codeChan:
				assert.Equal(t, tt.wantCode, code)
			default:
				assert.Empty(t, tt.wantCode)
			}

			select {
			case err := <-errChan:
				assert.True(t, tt.wantErr, "unexpected error %v", err)
			default:
				assert.False(t, tt.wantErr)
			}
		})
	}
}

func TestAuthenticate_RequiresCredentials(t *testing.T) {
	_, err := Authenticate(context.Background(), "", "secret", func(string) {})
	assert.Error(t, err)
}

func TestMockWriter(t *testing.T) {
	mock := NewMockWriter()
	result := model.NewClassificationResult(nil, model.ColumnRoles{}, nil, nil)

	require.NoError(t, mock.Write(context.Background(), result))
	assert.Equal(t, 1, mock.Calls())
	assert.Same(t, result, mock.LastResult)

	mock.SetWriteError(errors.New("quota exceeded"))
	assert.EqualError(t, mock.Write(context.Background(), result), "quota exceeded")
	assert.Equal(t, 2, mock.Calls())
}

func TestClassifyAPIError(t *testing.T) {
	quota := &googleapi.Error{Code: http.StatusTooManyRequests, Message: "quota"}
	assert.ErrorIs(t, classifyAPIError(quota), common.ErrRateLimit)

	forbidden := &googleapi.Error{Code: http.StatusForbidden, Message: "no access"}
	var retryable *common.RetryableError
	require.ErrorAs(t, classifyAPIError(forbidden), &retryable)
	assert.False(t, retryable.Retryable)

	unavailable := &googleapi.Error{Code: http.StatusServiceUnavailable}
	assert.Same(t, unavailable, classifyAPIError(unavailable))

	assert.NoError(t, classifyAPIError(nil))
}

// fakeSheetsAPI answers the handful of Sheets endpoints the writer uses. The
// first values update fails with 503 to exercise the retry path.
type fakeSheetsAPI struct {
	updates  [][][]any
	requests []string
	mu       sync.Mutex
	failed   bool
}

func (f *fakeSheetsAPI) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	rw.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet:
		_, _ = io.WriteString(rw, `{"spreadsheetId":"sheet-1","sheets":[{"properties":{"sheetId":7,"title":"Classificação"}}]}`)
	case r.Method == http.MethodPut:
		if !f.failed {
			f.failed = true
			rw.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(rw, `{"error":{"code":503,"message":"backend unavailable"}}`)
			return
		}
		var body sheets.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&body)
		values := make([][]any, len(body.Values))
		for i, row := range body.Values {
			values[i] = append([]any(nil), row...)
		}
		f.updates = append(f.updates, values)
		_, _ = io.WriteString(rw, `{}`)
	default:
		_, _ = io.WriteString(rw, `{}`)
	}
}

func TestWriterWrite(t *testing.T) {
	api := &fakeSheetsAPI{}
	server := httptest.NewServer(api)
	defer server.Close()

	ctx := context.Background()
	srv, err := sheets.NewService(ctx,
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()))
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.SpreadsheetID = "sheet-1"
	cfg.BatchSize = 1
	cfg.RetryDelay = time.Millisecond
	w := &Writer{service: srv, config: cfg, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	rows := []model.TransactionRow{
		{Raw: model.RawRow{"Histórico": "AMIL"}, Description: "AMIL", DebitAccount: "310", CreditAccount: "537", MatchedReference: "Amil"},
		{Raw: model.RawRow{"Histórico": "TARIFA"}, Description: "TARIFA"},
	}
	result := model.NewClassificationResult([]string{"Histórico"},
		model.ColumnRoles{Description: "Histórico"}, rows, nil)

	require.NoError(t, w.Write(ctx, result))

	api.mu.Lock()
	defer api.mu.Unlock()

	require.Len(t, api.updates, 3)
	assert.Equal(t, []any{"Histórico", "Débito", "Crédito"}, api.updates[0][0])
	assert.Equal(t, []any{"AMIL", "310", "537"}, api.updates[1][0])
	assert.Equal(t, []any{"TARIFA", "", ""}, api.updates[2][0])

	joined := strings.Join(api.requests, "\n")
	assert.Contains(t, joined, ":clear")
	assert.Contains(t, joined, ":batchUpdate")
}
