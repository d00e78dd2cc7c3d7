package cli

import (
	"context"
	"net"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rangeplot/pkg/observability"
	"github.com/matzehuels/rangeplot/pkg/pipeline"
	"github.com/matzehuels/rangeplot/pkg/server"
	"github.com/matzehuels/rangeplot/pkg/store"
	"github.com/matzehuels/rangeplot/pkg/theme"
)

// defaultMongoDatabase holds the figures collection.
const defaultMongoDatabase = "rangeplot"

// serveFlags holds the flag values for the serve command.
type serveFlags struct {
	host      string
	port      int
	mongo     string
	database  string
	theme     string
	maxUpload int64
	noCache   bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	flags := serveFlags{
		host:      "127.0.0.1",
		database:  defaultMongoDatabase,
		maxUpload: server.DefaultMaxUpload,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the figure server",
		Long: `Run an HTTP server that plots uploaded interval files and keeps the
resulting figures.

Figures are stored in memory unless --mongo (or RANGEPLOT_MONGO_URI) names a
MongoDB deployment. The port defaults to the theme's plotly_port.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.host, "host", flags.host, "address to listen on")
	f.IntVar(&flags.port, "port", 0, "port to listen on (default: theme plotly_port)")
	f.StringVar(&flags.mongo, "mongo", "", "MongoDB URI for figure storage")
	f.StringVar(&flags.database, "database", flags.database, "MongoDB database name")
	f.StringVar(&flags.theme, "theme", "", "default theme for uploads")
	f.Int64Var(&flags.maxUpload, "max-upload", flags.maxUpload, "maximum upload size in bytes")
	f.BoolVar(&flags.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, flags serveFlags) error {
	logger := loggerFromContext(ctx)

	port := flags.port
	if port == 0 {
		name := flags.theme
		if name == "" {
			name = pipeline.DefaultTheme
		}
		o, err := theme.ForTheme(name)
		if err != nil {
			return err
		}
		port = o.PlotlyPort
	}

	st, err := c.openStore(ctx, flags)
	if err != nil {
		return err
	}
	defer st.Close()

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	observability.SetServerHooks(requestLogHooks{logger: logger})
	srv := server.New(runner, st, logger,
		server.WithDefaults(pipeline.Options{Theme: flags.theme}),
		server.WithMaxUpload(flags.maxUpload),
	)

	addr := net.JoinHostPort(flags.host, strconv.Itoa(port))
	return srv.ListenAndServe(ctx, addr, func(a net.Addr) {
		printSuccess("Listening on %s", StyleLink.Render("http://"+a.String()))
		printDetail("Press Ctrl+C to stop")
	})
}

// openStore connects to MongoDB when a URI is configured and falls back to
// memory otherwise.
func (c *CLI) openStore(ctx context.Context, flags serveFlags) (store.Store, error) {
	uri := flags.mongo
	if uri == "" {
		uri = os.Getenv(envMongoURI)
	}
	if uri == "" {
		c.Logger.Debug("using in-memory figure store")
		return store.NewMemoryStore(), nil
	}
	st, err := store.NewMongoStore(ctx, uri, flags.database)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("using mongo figure store", "database", flags.database)
	return st, nil
}
