package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

type recordedCall struct {
	Method string
	Path   string
	Query  string
	Body   map[string]interface{}
}

type fakeSheetsAPI struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	call := recordedCall{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &call.Body)
	}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, ":append"):
		_, _ = w.Write([]byte(`{"updates":{"updatedRange":"Registrations!A2:O3","updatedRows":2}}`))
	case strings.HasSuffix(r.URL.Path, ":batchUpdate"):
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1"}`))
	case strings.Contains(r.URL.Path, "/values/"):
		_, _ = w.Write([]byte(`{"updatedRows":1}`))
	case r.Method == http.MethodGet:
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1","properties":{"title":"Form"},"sheets":[{"properties":{"sheetId":0,"title":"Sheet1","index":0}},{"properties":{"sheetId":77,"title":"Registrations","index":1,"rightToLeft":true}}]}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newFakeGoogleStore(t *testing.T) (*GoogleStore, *fakeSheetsAPI) {
	t.Helper()
	api := &fakeSheetsAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	svc, err := gsheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return newGoogleStoreWithService(svc, "sheet-1", 0), api
}

func TestGoogleStoreMetadata(t *testing.T) {
	store, _ := newFakeGoogleStore(t)

	meta, err := store.Metadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sheet-1", meta.ID)
	assert.Equal(t, "Form", meta.Title)
	require.Len(t, meta.Sheets, 2)
	sheet, ok := meta.FindSheet("Registrations")
	require.True(t, ok)
	assert.Equal(t, int64(77), sheet.SheetID)
	assert.True(t, sheet.RightToLeft)
}

func TestGoogleStoreAppendSendsRawRows(t *testing.T) {
	store, api := newFakeGoogleStore(t)

	res, err := store.AppendValues(context.Background(), CellRange("Registrations", 1, 1), [][]string{{"S1", "a"}, {"S1", "b"}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.UpdatedRows)
	assert.Equal(t, "Registrations!A2:O3", res.UpdatedRange)

	require.Len(t, api.calls, 1)
	call := api.calls[0]
	assert.Equal(t, http.MethodPost, call.Method)
	assert.Contains(t, call.Path, "/v4/spreadsheets/sheet-1/values/Registrations!A1:append")
	assert.Contains(t, call.Query, "valueInputOption=RAW")
	assert.Equal(t, []interface{}{[]interface{}{"S1", "a"}, []interface{}{"S1", "b"}}, call.Body["values"])
}

func TestGoogleStoreDisplayPropertiesForcesZeroValues(t *testing.T) {
	store, api := newFakeGoogleStore(t)

	require.NoError(t, store.UpdateDisplayProperties(context.Background(), 0, DisplayProperties{RightToLeft: true}))

	require.Len(t, api.calls, 1)
	requests := api.calls[0].Body["requests"].([]interface{})
	update := requests[0].(map[string]interface{})["updateSheetProperties"].(map[string]interface{})
	props := update["properties"].(map[string]interface{})
	assert.Equal(t, "rightToLeft", update["fields"])
	assert.Equal(t, float64(0), props["sheetId"])
	assert.Equal(t, true, props["rightToLeft"])
}

func TestGoogleStoreUpdateValues(t *testing.T) {
	store, api := newFakeGoogleStore(t)

	require.NoError(t, store.UpdateValues(context.Background(), RowRange("Registrations", 1, 1, 2), [][]string{{"h1", "h2"}}))

	require.Len(t, api.calls, 1)
	assert.Equal(t, http.MethodPut, api.calls[0].Method)
	assert.Contains(t, api.calls[0].Path, "Registrations!A1:B1")
}
