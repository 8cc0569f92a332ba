package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

const valueInputRaw = "RAW"

// GoogleStore talks to one spreadsheet through the Sheets API v4.
type GoogleStore struct {
	svc           *gsheets.Service
	spreadsheetID string
	timeout       time.Duration
}

// DefaultHandshakeTimeout bounds each token request when no explicit
// handshake timeout is set.
const DefaultHandshakeTimeout = 30 * time.Second

// GoogleOption customises a GoogleStore.
type GoogleOption func(*googleOptions)

type googleOptions struct {
	timeout    time.Duration
	handshake  time.Duration
	clientOpts []option.ClientOption
}

// WithCallTimeout bounds each API call. Zero keeps the client defaults.
func WithCallTimeout(d time.Duration) GoogleOption {
	return func(o *googleOptions) { o.timeout = d }
}

// WithHandshakeTimeout bounds each token request to the OAuth endpoint,
// including later refreshes. Zero keeps DefaultHandshakeTimeout.
func WithHandshakeTimeout(d time.Duration) GoogleOption {
	return func(o *googleOptions) {
		if d > 0 {
			o.handshake = d
		}
	}
}

// WithClientOptions forwards extra options to the generated API client.
func WithClientOptions(opts ...option.ClientOption) GoogleOption {
	return func(o *googleOptions) { o.clientOpts = append(o.clientOpts, opts...) }
}

// NewGoogleStore authorises the service account and returns a store bound to
// spreadsheetID. The first token is fetched eagerly so bad credentials fail
// here rather than on the first write; ctx bounds that wait. The token source
// itself outlives ctx and uses a token client limited by the handshake timeout.
func NewGoogleStore(ctx context.Context, acct *ServiceAccount, spreadsheetID string, opts ...GoogleOption) (*GoogleStore, error) {
	if acct == nil {
		return nil, errors.New("service account is nil")
	}
	if spreadsheetID == "" {
		return nil, errors.New("spreadsheet id is empty")
	}

	o := googleOptions{handshake: DefaultHandshakeTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: o.handshake})
	ts := acct.JWTConfig(SpreadsheetsScope).TokenSource(tokenCtx)
	tok, err := firstToken(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("authorize service account: %w", err)
	}

	clientOpts := append([]option.ClientOption{option.WithTokenSource(oauth2.ReuseTokenSource(tok, ts))}, o.clientOpts...)
	svc, err := gsheets.NewService(context.Background(), clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	return &GoogleStore{svc: svc, spreadsheetID: spreadsheetID, timeout: o.timeout}, nil
}

// firstToken waits for ts until ctx is done. The token request itself is
// bounded by the token client's timeout and finishes in the background.
func firstToken(ctx context.Context, ts oauth2.TokenSource) (*oauth2.Token, error) {
	type result struct {
		tok *oauth2.Token
		err error
	}
	ch := make(chan result, 1)
	go func() {
		tok, err := ts.Token()
		ch <- result{tok, err}
	}()
	select {
	case r := <-ch:
		return r.tok, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// newGoogleStoreWithService wraps an already configured client.
func newGoogleStoreWithService(svc *gsheets.Service, spreadsheetID string, timeout time.Duration) *GoogleStore {
	return &GoogleStore{svc: svc, spreadsheetID: spreadsheetID, timeout: timeout}
}

func (s *GoogleStore) Metadata(ctx context.Context) (*Spreadsheet, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	resp, err := s.svc.Spreadsheets.Get(s.spreadsheetID).
		Fields("spreadsheetId", "properties.title", "sheets.properties").
		Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	meta := &Spreadsheet{ID: resp.SpreadsheetId}
	if resp.Properties != nil {
		meta.Title = resp.Properties.Title
	}
	for _, sheet := range resp.Sheets {
		if sheet == nil || sheet.Properties == nil {
			continue
		}
		p := sheet.Properties
		meta.Sheets = append(meta.Sheets, SheetProperties{
			SheetID:     p.SheetId,
			Title:       p.Title,
			Index:       int(p.Index),
			RightToLeft: p.RightToLeft,
		})
	}
	return meta, nil
}

func (s *GoogleStore) UpdateValues(ctx context.Context, rng Range, values [][]string) error {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rng.String(), &gsheets.ValueRange{Values: toCells(values)}).
		ValueInputOption(valueInputRaw).
		Context(ctx).Do()
	return err
}

func (s *GoogleStore) AppendValues(ctx context.Context, rng Range, values [][]string) (*AppendResult, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	resp, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, rng.String(), &gsheets.ValueRange{Values: toCells(values)}).
		ValueInputOption(valueInputRaw).
		Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	res := &AppendResult{UpdatedRows: len(values)}
	if resp.Updates != nil {
		res.UpdatedRange = resp.Updates.UpdatedRange
		res.UpdatedRows = int(resp.Updates.UpdatedRows)
	}
	return res, nil
}

func (s *GoogleStore) UpdateDisplayProperties(ctx context.Context, sheetID int64, props DisplayProperties) error {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			UpdateSheetProperties: &gsheets.UpdateSheetPropertiesRequest{
				Properties: &gsheets.SheetProperties{
					SheetId:     sheetID,
					RightToLeft: props.RightToLeft,
					// sheet 0 and rightToLeft=false are zero values and would
					// otherwise be dropped from the request body.
					ForceSendFields: []string{"SheetId", "RightToLeft"},
				},
				Fields: "rightToLeft",
			},
		}},
	}
	_, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do()
	return err
}

func (s *GoogleStore) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func toCells(values [][]string) [][]interface{} {
	out := make([][]interface{}, len(values))
	for i, row := range values {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		out[i] = cells
	}
	return out
}
