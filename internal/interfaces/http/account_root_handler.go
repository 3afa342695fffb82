package httpinterface

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/youweixue/RipplePower/internal/core/application"
	"github.com/youweixue/RipplePower/internal/core/domain"
	"github.com/youweixue/RipplePower/internal/core/ports"
)

const accountsPath = "/accounts"

// AccountRootService serves the mirrored snapshots over plain HTTP.
type AccountRootService interface {
	// AccountsHandler lists the snapshots of the tracked accounts that
	// have one.
	AccountsHandler(w http.ResponseWriter, req *http.Request)
	// AccountHandler returns the snapshot of the account in the path.
	AccountHandler(w http.ResponseWriter, req *http.Request)
	// Register mounts the handlers on mux.
	Register(mux *http.ServeMux)
}

type accountRootService struct {
	mirror application.AccountMirror
	lookup ports.AccountNameLookup
}

func NewAccountRootService(
	mirror application.AccountMirror, lookup ports.AccountNameLookup,
) AccountRootService {
	return &accountRootService{mirror, lookup}
}

func (s *accountRootService) Register(mux *http.ServeMux) {
	mux.HandleFunc(accountsPath, s.AccountsHandler)
	mux.HandleFunc(accountsPath+"/", s.AccountHandler)
}

func (s *accountRootService) AccountsHandler(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	ctx := req.Context()
	accounts := s.mirror.ListAccounts(ctx)
	infos := make([]application.AccountRootInfo, 0, len(accounts))
	for _, account := range accounts {
		root, err := s.mirror.GetAccountRoot(ctx, account)
		if err != nil {
			// Tracked but nothing observed yet.
			if errors.Is(err, domain.ErrAccountRootNotFound) {
				continue
			}
			log.WithError(err).Errorf("http: failed to get account %s", account)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		infos = append(infos, application.NewAccountRootInfo(*root, s.name(account)))
	}

	writeJSON(w, infos)
}

func (s *accountRootService) AccountHandler(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	account := strings.Trim(strings.TrimPrefix(req.URL.Path, accountsPath), "/")
	if account == "" || strings.Contains(account, "/") {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	root, err := s.mirror.GetAccountRoot(req.Context(), account)
	if err != nil {
		if errors.Is(err, domain.ErrAccountRootNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.WithError(err).Errorf("http: failed to get account %s", account)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, application.NewAccountRootInfo(*root, s.name(account)))
}

func (s *accountRootService) name(account string) string {
	if s.lookup == nil {
		return ""
	}
	return s.lookup.AccountName(account)
}

func writeJSON(w http.ResponseWriter, resp interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.WithError(err).Debug("http: failed to write response")
	}
}
