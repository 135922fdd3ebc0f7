package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockroom/app/controllers"
	"github.com/shashiranjanraj/stockroom/app/dashboard"
	"github.com/shashiranjanraj/stockroom/app/routes"
	"github.com/shashiranjanraj/stockroom/config"
	"github.com/shashiranjanraj/stockroom/database/seeders"
	"github.com/shashiranjanraj/stockroom/internal/kernel"
	"github.com/shashiranjanraj/stockroom/internal/server"
	"github.com/shashiranjanraj/stockroom/pkg/database"
	"github.com/shashiranjanraj/stockroom/pkg/grpc"
	"github.com/shashiranjanraj/stockroom/pkg/logger"
	"github.com/shashiranjanraj/stockroom/pkg/middleware"
	"github.com/shashiranjanraj/stockroom/pkg/migration"
	"github.com/shashiranjanraj/stockroom/pkg/router"
	"github.com/shashiranjanraj/stockroom/pkg/session"
	"github.com/shashiranjanraj/stockroom/pkg/storage"
	"github.com/shashiranjanraj/stockroom/pkg/ws"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// webRoutes mounts the dashboard.
func webRoutes(pages *dashboard.Registry, hub *ws.Hub, disk storage.Disk) kernel.RegisterFunc {
	return func(r *router.Router) error {
		routes.RegisterWeb(r, controllers.NewDashboardController(pages, hub, disk))
		return nil
	}
}

func apiRoutes(db *gorm.DB) kernel.RegisterFunc {
	return func(r *router.Router) error { return routes.RegisterAPI(r, db) }
}

// stockroom serve: the dashboard.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		rt, err := boot(ctx)
		if err != nil {
			return err
		}
		defer rt.close()

		cors := middleware.CORSOptionsFromEnv()
		hub := ws.NewHub()
		hub.SetCheckOrigin(cors.CheckOrigin)
		go hub.Run(ctx)

		ttl := config.SessionTTL()
		pages := dashboard.NewRegistry(ctx, rt.deps(hub), ttl)
		go pages.Run(ctx, time.Minute)

		opts := session.DefaultOptions()
		opts.TTL = ttl
		sessions := session.NewManager(rt.store, opts)

		sched, err := rt.jobs()
		if err != nil {
			return err
		}
		sched.Start(ctx)

		k, err := kernel.New(kernel.Options{Sessions: sessions, CORS: &cors}, webRoutes(pages, hub, rt.disk))
		if err != nil {
			return err
		}
		logger.Info("dashboard: starting", "port", config.AppPort(), "api", config.APIBaseURL())
		return server.Serve(ctx, ":"+config.AppPort(), k.Handler())
	},
}

var seedOnStart bool

// stockroom serve:api: the inventory API the dashboard reads from.
var serveAPICmd = &cobra.Command{
	Use:   "serve:api",
	Short: "Start the inventory API server and its gRPC health endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()
		defer logger.Setup()()

		if _, err := migration.New(database.DB).Run(); err != nil {
			return err
		}
		if seedOnStart {
			if err := seeders.RunAll(database.DB, os.Stdout); err != nil {
				return err
			}
		}

		gs, err := grpc.Start(ctx, config.GRPCPort(), grpc.Check{
			Service: "stockroom.database",
			Probe: func(ctx context.Context) error {
				sqlDB, err := database.DB.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
		})
		if err != nil {
			return err
		}
		defer gs.Stop()

		k, err := kernel.New(kernel.Options{}, apiRoutes(database.DB))
		if err != nil {
			return err
		}
		return server.Serve(ctx, ":"+config.APIPort(), k.Handler())
	},
}

// stockroom route:list: print the named routes of both servers.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		web, err := kernel.New(kernel.Options{}, webRoutes(nil, nil, nil))
		if err != nil {
			return err
		}
		api, err := kernel.New(kernel.Options{}, apiRoutes(nil))
		if err != nil {
			return err
		}

		type row struct {
			server string
			router.Route
		}
		var infos []row
		for _, r := range web.Routes() {
			infos = append(infos, row{"web", r})
		}
		for _, r := range api.Routes() {
			infos = append(infos, row{"api", r})
		}

		sort.Slice(infos, func(i, j int) bool {
			if infos[i].server != infos[j].server {
				return infos[i].server > infos[j].server
			}
			if infos[i].Path != infos[j].Path {
				return infos[i].Path < infos[j].Path
			}
			return infos[i].Method < infos[j].Method
		})

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "SERVER\tMETHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t------\t----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ri.server, ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

func init() {
	serveAPICmd.Flags().BoolVar(&seedOnStart, "seed", false, "Load the sample inventory after migrating")
}
