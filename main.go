package main

import (
	"log"
	"net/http"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/kidandcat/vatrack/internal/api"
	"github.com/kidandcat/vatrack/internal/config"
	"github.com/kidandcat/vatrack/internal/identity"
	"github.com/kidandcat/vatrack/internal/kvstore"
	"github.com/kidandcat/vatrack/internal/model"
	"github.com/kidandcat/vatrack/internal/persist"
	"github.com/kidandcat/vatrack/internal/timer"
)

// kvSaver persists the active-timer snapshot in the key-value store so a
// restart resumes a running timer.
type kvSaver struct {
	kv *kvstore.Store
}

func (s kvSaver) SaveActiveTimer(t *model.ActiveTimer) error {
	if t == nil {
		return s.kv.Delete(kvstore.KeyActiveTimer)
	}
	return s.kv.Set(kvstore.KeyActiveTimer, t)
}

func seedAccounts(cfg config.Config) ([]identity.Account, error) {
	accounts := []identity.Account{}
	for _, seed := range []struct {
		id   string
		role model.Role
		acc  config.AccountConfig
	}{
		{"admin", model.RoleAdmin, cfg.Admin},
		{"va", model.RoleVA, cfg.VA},
	} {
		hash, err := identity.HashPassword(seed.acc.Password)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, identity.Account{
			User: model.User{
				ID:    seed.id,
				Name:  seed.acc.Name,
				Email: seed.acc.Email,
				Role:  seed.role,
			},
			PasswordHash: hash,
		})
	}
	return accounts, nil
}

func main() {
	cfg := config.Load()

	kv, err := kvstore.Open(cfg.DataDir)
	if err != nil {
		log.Fatalf("open kv store: %v", err)
	}

	var store persist.Store
	if cfg.UseSQLite {
		store, err = persist.OpenSQLite(cfg.DataDir)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
	} else {
		log.Printf("no database configured, using local key-value persistence")
		store = persist.OpenLocal(kv)
	}
	defer store.Close()

	accounts, err := seedAccounts(cfg)
	if err != nil {
		log.Fatalf("seed accounts: %v", err)
	}
	id := identity.New(cfg.JWTSecret, accounts)

	tc := timer.NewController(kvSaver{kv: kv})
	var snapshot model.ActiveTimer
	if ok, err := kv.Get(kvstore.KeyActiveTimer, &snapshot); err != nil {
		log.Printf("error restoring active timer: %v", err)
	} else if ok {
		tc.Restore(&snapshot)
	}

	mux := http.NewServeMux()
	api.NewServer(store, id, kv, tc).RegisterRoutes(mux)
	mux.Handle("/", &app.Handler{
		Name:        "VA Tracker",
		ShortName:   "vatrack",
		Description: "Task tracking for a two-member team",
		Styles:      []string{"/web/app.css"},
	})

	log.Printf("vatrack running on %s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, mux))
}
