package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"

	"facops/internal/auth"
	"facops/internal/catalog"
	"facops/internal/config"
	"facops/internal/handlers/admin"
	"facops/internal/handlers/dashboard"
	"facops/internal/handlers/inventory"
	prodhandler "facops/internal/handlers/production"
	"facops/internal/handlers/workorders"
	"facops/internal/ledger"
	"facops/internal/maintenance"
	"facops/internal/production"
	"facops/internal/stats"
	"facops/internal/store"
	"facops/internal/websocket"
	"facops/internal/workorder"
)

func main() {
	cfgPath := flag.String("config", "facops.yaml", "Path to YAML config file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal("Config load failed: ", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("DB init failed: ", err)
	}
	defer st.Close()
	if cfg.Seed {
		st.Seed()
	}

	hub := websocket.NewHub()
	authSvc := auth.New(st)
	mux := newMux(st, hub, authSvc, cfg.BackupDir)

	handler := logging(requireAuth(authSvc, mux))
	log.Printf("Listening on %s (db: %s)", cfg.Addr, cfg.DBPath)
	log.Fatal(http.ListenAndServe(cfg.Addr, handler))
}

func newMux(st *store.Store, hub *websocket.Hub, authSvc *auth.Service, backupDir string) *http.ServeMux {
	invH := &inventory.Handler{Ledger: ledger.New(st), Hub: hub}
	prodH := &prodhandler.Handler{Production: production.New(st), Hub: hub}
	woH := &workorders.Handler{Orders: workorder.New(st), Hub: hub}
	dashH := &dashboard.Handler{Stats: stats.New(st), Ledger: ledger.New(st)}
	adminH := &admin.Handler{Catalog: catalog.New(st), Maintenance: maintenance.New(st),
		Auth: authSvc, Store: st, BackupDir: backupDir, Hub: hub}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})

	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			jsonErr(w, "Method not allowed", 405)
			return
		}
		handleLogin(authSvc)(w, r)
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			jsonErr(w, "Method not allowed", 405)
			return
		}
		handleLogout(authSvc)(w, r)
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		handleMe(authSvc)(w, r)
	})

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		websocket.HandleWebSocket(hub, w, r)
	})

	mux.HandleFunc("/api/v1/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		path := strings.TrimPrefix(r.URL.Path, "/api/v1/")
		parts := strings.Split(strings.Trim(path, "/"), "/")

		switch {
		case path == "dashboard" && r.Method == "GET":
			dashH.StatsForDate(w, r)
		case path == "dashboard/lines" && r.Method == "GET":
			dashH.ByLine(w, r)
		case path == "dashboard/lowstock" && r.Method == "GET":
			dashH.LowStock(w, r)

		case path == "inventory" && r.Method == "GET":
			invH.List(w, r)
		case path == "inventory/move" && r.Method == "POST":
			invH.Move(w, r)
		case path == "inventory/export" && r.Method == "GET":
			invH.Export(w, r)
		case parts[0] == "inventory" && len(parts) == 2 && r.Method == "GET":
			invH.Get(w, r, pathID(parts[1]))
		case parts[0] == "inventory" && len(parts) == 3 && parts[2] == "movements" && r.Method == "GET":
			invH.Movements(w, r, pathID(parts[1]))
		case parts[0] == "inventory" && len(parts) == 3 && parts[2] == "audit" && r.Method == "GET":
			invH.Audit(w, r, pathID(parts[1]))
		case parts[0] == "inventory" && len(parts) == 3 && parts[2] == "limits" && r.Method == "PUT":
			invH.SetLimits(w, r, pathID(parts[1]))

		case path == "production" && r.Method == "GET":
			prodH.List(w, r)
		case path == "production" && r.Method == "POST":
			prodH.Record(w, r)
		case path == "production/export" && r.Method == "GET":
			prodH.Export(w, r)
		case parts[0] == "production" && len(parts) == 2 && r.Method == "GET":
			prodH.Get(w, r, pathID(parts[1]))

		case path == "workorders" && r.Method == "GET":
			woH.List(w, r)
		case path == "workorders" && r.Method == "POST":
			woH.Create(w, r)
		case path == "workorders/export" && r.Method == "GET":
			woH.Export(w, r)
		case parts[0] == "workorders" && len(parts) == 2 && r.Method == "GET":
			woH.Get(w, r, pathID(parts[1]))
		case parts[0] == "workorders" && len(parts) == 3 && parts[2] == "transition" && r.Method == "POST":
			woH.Transition(w, r, pathID(parts[1]))

		case path == "products" && r.Method == "GET":
			adminH.ListProducts(w, r)
		case path == "products" && r.Method == "POST":
			adminH.CreateProduct(w, r)
		case parts[0] == "products" && len(parts) == 2 && r.Method == "PUT":
			adminH.UpdateProduct(w, r, pathID(parts[1]))

		case path == "lines" && r.Method == "GET":
			adminH.ListLines(w, r)
		case path == "lines" && r.Method == "POST":
			adminH.CreateLine(w, r)
		case parts[0] == "lines" && len(parts) == 3 && parts[2] == "status" && r.Method == "PUT":
			adminH.SetLineStatus(w, r, pathID(parts[1]))

		case path == "users" && r.Method == "GET":
			adminH.ListUsers(w, r)
		case path == "users" && r.Method == "POST":
			adminH.CreateUser(w, r)

		case path == "maintenance" && r.Method == "GET":
			adminH.ListMaintenance(w, r, pathID(r.URL.Query().Get("line_id")))
		case path == "maintenance" && r.Method == "POST":
			adminH.LogMaintenance(w, r)
		case parts[0] == "maintenance" && len(parts) == 3 && parts[2] == "complete" && r.Method == "POST":
			adminH.CompleteMaintenance(w, r, pathID(parts[1]))

		case path == "admin/backup" && r.Method == "POST":
			adminH.CreateBackup(w, r)
		case path == "admin/backups" && r.Method == "GET":
			adminH.ListBackups(w, r)
		case path == "admin/database" && r.Method == "GET":
			adminH.DatabaseInfo(w, r)

		default:
			jsonErr(w, "Not found", 404)
		}
	})

	return mux
}
