package httpinterface_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/youweixue/RipplePower/internal/core/application"
	"github.com/youweixue/RipplePower/internal/core/domain"
	accountlookup "github.com/youweixue/RipplePower/internal/infrastructure/account-lookup"
	entryparser "github.com/youweixue/RipplePower/internal/infrastructure/entry-parser"
	"github.com/youweixue/RipplePower/internal/infrastructure/storage/db/inmemory"
	httpinterface "github.com/youweixue/RipplePower/internal/interfaces/http"
	"github.com/youweixue/RipplePower/pkg/bytebuffer"
)

const (
	account = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	stored  = "rU6K7V3Po4snVhBBaU29sesqs2qTQJWDw1"
	pending = "rPEPPER7kfTD9w2To4CQk6UCfuHM9c6GDY"
)

func newTestServer(t *testing.T) *httptest.Server {
	ctx := context.Background()
	repoManager := inmemory.NewRepoManager()

	storedRoot := domain.NewUnfundedAccountRoot(stored)
	err := repoManager.AccountRootRepository().SaveAccountRoot(ctx, &storedRoot)
	require.NoError(t, err)

	mirror, err := application.NewAccountMirror(
		repoManager, entryparser.NewService(bytebuffer.BigEndian),
		application.MirrorOpts{},
	)
	require.NoError(t, err)
	err = mirror.Bootstrap(ctx, domain.AccountRoot{
		Account:  account,
		Balance:  decimal.RequireFromString("33.3"),
		Sequence: 5,
	})
	require.NoError(t, err)
	// Tracked, but no snapshot observed yet.
	_, err = mirror.Track(ctx, pending)
	require.NoError(t, err)

	lookup := accountlookup.NewStaticLookup(map[string]string{account: "Bitstamp"})
	mux := http.NewServeMux()
	httpinterface.NewAccountRootService(mirror, lookup).Register(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestAccountRootHandlers(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	t.Run("list", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/accounts")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		infos := make([]application.AccountRootInfo, 0)
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&infos))
		require.Len(t, infos, 1)
		require.Equal(t, "Bitstamp", infos[0].Name)
		require.Equal(t, "33.3", infos[0].Balance)
	})

	tests := []struct {
		name       string
		path       string
		method     string
		status     int
		sequence   uint32
		entityName string
	}{
		{"tracked", "/accounts/" + account, http.MethodGet, http.StatusOK, 5, "Bitstamp"},
		{"stored only", "/accounts/" + stored, http.MethodGet, http.StatusOK, 1, ""},
		{"unknown", "/accounts/rUnknown", http.MethodGet, http.StatusNotFound, 0, ""},
		{"not observed yet", "/accounts/" + pending, http.MethodGet, http.StatusNotFound, 0, ""},
		{"empty", "/accounts/", http.MethodGet, http.StatusNotFound, 0, ""},
		{"nested", "/accounts/" + account + "/lines", http.MethodGet, http.StatusNotFound, 0, ""},
		{"bad method", "/accounts/" + account, http.MethodPost, http.StatusMethodNotAllowed, 0, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, server.URL+tt.path, nil)
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, tt.status, resp.StatusCode)
			if tt.status != http.StatusOK {
				return
			}

			info := application.AccountRootInfo{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
			require.Equal(t, tt.sequence, info.Sequence)
			require.Equal(t, tt.entityName, info.Name)
		})
	}
}
