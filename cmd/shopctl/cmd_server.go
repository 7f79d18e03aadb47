package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/routes"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/config"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/internal/server"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/database"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/router"
)

// shopctl serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// shopctl route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Route registration needs a live DB handle for the repositories.
		if err := config.Load(); err != nil {
			return err
		}
		if err := database.Connect(); err != nil {
			return err
		}

		r := router.New()
		routes.RegisterAPI(r, database.DB)

		byName := r.Routes()
		if len(byName) == 0 {
			fmt.Println("No named routes registered.")
			return nil
		}

		names := make([]string, 0, len(byName))
		for name := range byName {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			if byName[names[i]] != byName[names[j]] {
				return byName[names[i]] < byName[names[j]]
			}
			return names[i] < names[j]
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "PATH\tNAME")
		fmt.Fprintln(w, "----\t----")
		for _, name := range names {
			fmt.Fprintf(w, "%s\t%s\n", byName[name], name)
		}
		return w.Flush()
	},
}
