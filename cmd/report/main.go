package main

import (
	"context"
	"flag"
	"os"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"tradereport/internal/bus"
	"tradereport/internal/obs"
	"tradereport/internal/ops"
	"tradereport/internal/report"
	"tradereport/internal/state"
	"tradereport/internal/store"
	"tradereport/pkg/conn"
)

const (
	sourceJournal  = "journal"
	sourcePostgres = "postgres"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to JSON config")
	source := flag.String("source", sourceJournal, "Event source: journal or postgres")
	envFile := flag.String("env", "", "Dotenv file with POSTGRES_* settings (default: .env)")
	profileAddr := flag.String("pyroscope", "", "Pyroscope server address (empty=disabled)")
	flag.Parse()

	if *profileAddr != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "tradereport",
			ServerAddress:   *profileAddr,
			Logger:          profileLogger{},
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseObjects,
				pyroscope.ProfileInuseSpace,
			},
		})
		if err != nil {
			fatalf("pyroscope start failed: %+v", err)
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	loaded, err := ops.Load(*configPath)
	if err != nil {
		fatalf("config load failed: %+v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-sys.Shutdown()
		logs.Info("shutdown requested")
		cancel()
	}()

	metrics := obs.NewMetrics()
	var ledger *state.Ledger
	switch *source {
	case sourceJournal:
		ledger, err = fromJournal(ctx, loaded, metrics)
	case sourcePostgres:
		ledger, err = fromPostgres(ctx, loaded, metrics, *envFile)
	default:
		fatalf("unknown source %q", *source)
	}
	if err != nil {
		fatalf("build ledger from %s failed: %+v", *source, err)
	}

	snap := ledger.Snapshot()
	orders := report.Orders(snap.Orders)
	fills := report.OrderFills(snap.Orders)
	positions := report.Positions(snap.Positions)

	logs.Infof("ledger: last seq %d", snap.LastSeq)
	logs.Infof("report: %d orders, %d filled orders, %d positions", orders.Len(), fills.Len(), positions.Len())
	logTable(orders.IndexName, orders.Columns, orders.Index(), orders.Records())
	logTable(positions.IndexName, positions.Columns, positions.Index(), positions.Records())

	m := metrics.Snapshot()
	logs.Infof("metrics: applied %v rejected %v apply avg %s max %s", m.Applied, m.Rejected, m.ApplyLatency.Avg, m.ApplyLatency.Max)
}

func fromJournal(ctx context.Context, loaded ops.Loaded, metrics *obs.Metrics) (*state.Ledger, error) {
	ledger, _, err := state.Recover(ctx, loaded.Ledger, loaded.Playback(),
		state.WithRegistry(loaded.Registry),
		state.WithMetrics(metrics),
	)
	return ledger, err
}

func fromPostgres(ctx context.Context, loaded ops.Loaded, metrics *obs.Metrics, envFile string) (*state.Ledger, error) {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	env, err := ops.LoadEnv(files...)
	if err != nil {
		return nil, err
	}
	client, err := conn.New(env.Postgres.Option())
	if err != nil {
		return nil, err
	}
	defer client.Close()
	if err := client.Ping(ctx); err != nil {
		return nil, err
	}

	ledger := state.New(loaded.Ledger, state.WithRegistry(loaded.Registry), state.WithMetrics(metrics))
	queue := bus.NewQueue(loaded.Ledger.QueueSize)
	fillStore := store.New(client.DB())

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	errc := make(chan error, 1)
	go func() {
		err := ledger.Run(runCtx, queue)
		if err != nil {
			stop()
		}
		errc <- err
	}()

	_, err = fillStore.Publish(runCtx, queue)
	queue.Close()
	if runErr := <-errc; runErr != nil {
		return nil, runErr
	}
	if err != nil {
		return nil, err
	}
	return ledger, nil
}

func logTable(indexName string, columns []string, index []string, records [][]any) {
	logs.Infof("%s %v", indexName, columns)
	for i, rec := range records {
		logs.Infof("%s %v", index[i], rec)
	}
}

func fatalf(format string, args ...any) {
	logs.Errorf(format, args...)
	os.Exit(1)
}

type profileLogger struct{}

func (profileLogger) Infof(_ string, _ ...interface{})  {}
func (profileLogger) Debugf(_ string, _ ...interface{}) {}

func (profileLogger) Errorf(format string, args ...interface{}) {
	logs.Errorf("pyroscope: "+format, args...)
}
