//go:build integration

package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/go-petr/wallet-ledger/internal/domain"
	"github.com/go-petr/wallet-ledger/internal/integrationtest"
	"github.com/go-petr/wallet-ledger/pkg/web"
)

type accountData struct {
	Account domain.Account `json:"account"`
}

var compareDecimal = cmp.Comparer(func(x, y decimal.Decimal) bool { return x.Equal(y) })

func TestCreateAccountAPI(t *testing.T) {
	defer integrationtest.Flush(t, server.DB)

	testCases := []struct {
		name           string
		body           string
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "OK",
			body:           `{"owner":"alice"}`,
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "MissingOwner",
			body:           `{}`,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "owner is required",
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString(tc.body))
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			w := httptest.NewRecorder()
			server.ServeHTTP(w, req)

			if got := w.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := web.Response{Data: &accountData{}}
			if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusCreated {
				if res.Error != tc.wantError {
					t.Errorf(`res.Error=%q, want %q`, res.Error, tc.wantError)
				}

				return
			}

			got := res.Data.(*accountData).Account
			want := domain.Account{
				Owner:     "alice",
				Balance:   decimal.Zero,
				Currency:  server.Config.SettlementCurrency,
				Status:    domain.AccountStatusActive,
				CreatedAt: time.Now(),
			}

			opts := []cmp.Option{
				cmpopts.IgnoreFields(domain.Account{}, "ID"),
				cmpopts.EquateApproxTime(5 * time.Second),
				compareDecimal,
			}
			if diff := cmp.Diff(want, got, opts...); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetAccountAPI(t *testing.T) {
	defer integrationtest.Flush(t, server.DB)

	account := integrationtest.SeedAccount(t, server.DB, "250.75", domain.AccountStatusActive)

	testCases := []struct {
		name           string
		id             string
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "OK",
			id:             account.ID.String(),
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "NotFound",
			id:             uuid.NewString(),
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrAccountNotFound.Error(),
		},
		{
			name:           "InvalidID",
			id:             "42",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "id must be a valid uuid",
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, "/accounts/"+tc.id, nil)
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			w := httptest.NewRecorder()
			server.ServeHTTP(w, req)

			if got := w.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := web.Response{Data: &accountData{}}
			if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf(`res.Error=%q, want %q`, res.Error, tc.wantError)
				}

				return
			}

			got := res.Data.(*accountData).Account
			opts := []cmp.Option{cmpopts.EquateApproxTime(time.Millisecond), compareDecimal}
			if diff := cmp.Diff(account, got, opts...); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
