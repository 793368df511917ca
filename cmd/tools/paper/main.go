package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/logs"

	"tradereport/internal/event"
	"tradereport/internal/model"
	"tradereport/internal/model/enum"
	"tradereport/internal/obs"
	"tradereport/internal/ops"
	"tradereport/internal/order"
	"tradereport/internal/recorder"
	"tradereport/internal/schema"
	"tradereport/internal/state"
	"tradereport/internal/store"
	"tradereport/pkg/conn"
)

// paper writes a deterministic synthetic event stream: round trips of an
// opening order and a closing order, each filled in a few executions that are
// also classified against one position. Events go to the file journal or, with
// -sink postgres, to the orders and fills tables read by report.
func main() {
	configPath := flag.String("config", "config.json", "Path to JSON config")
	outputDir := flag.String("output-dir", "", "Output journal directory (default: journal dir from config)")
	roundTrips := flag.Int("round-trips", 10, "Number of open/close round trips")
	seed := flag.Uint64("seed", 1, "Random seed")
	start := flag.String("start", "2024-01-02T00:00:00Z", "Timestamp of the first execution (RFC3339)")
	sink := flag.String("sink", "journal", "Event sink: journal or postgres")
	envFile := flag.String("env", "", "Dotenv file with POSTGRES_* settings (default: .env)")
	flag.Parse()

	loaded, err := ops.Load(*configPath)
	if err != nil {
		fatalf("config load failed: %+v", err)
	}
	if loaded.Registry.InstrumentCount() == 0 {
		fatalf("config has no instruments")
	}
	startAt, err := time.Parse(time.RFC3339, *start)
	if err != nil {
		fatalf("parse start: %+v", err)
	}

	journalCfg := loaded.Journal
	if *outputDir != "" {
		journalCfg.Dir = *outputDir
	}
	var (
		journal   state.Journal
		closeSink func() error
	)
	switch *sink {
	case "journal":
		writer, err := recorder.NewWriter(journalCfg)
		if err != nil {
			fatalf("writer init failed: %+v", err)
		}
		journal, closeSink = writer, writer.Close
	case "postgres":
		journal, closeSink, err = openStore(context.Background(), *envFile)
		if err != nil {
			fatalf("store init failed: %+v", err)
		}
	default:
		fatalf("unknown sink %q", *sink)
	}

	metrics := obs.NewMetrics()
	ledger := state.New(loaded.Ledger,
		state.WithRegistry(loaded.Registry),
		state.WithJournal(journal),
		state.WithMetrics(metrics),
	)
	gen := &generator{
		ledger:   ledger,
		registry: loaded.Registry,
		rng:      rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15)),
		clock:    startAt.UTC(),
	}
	for i := 0; i < *roundTrips; i++ {
		if err := gen.roundTrip(i); err != nil {
			_ = closeSink()
			fatalf("round trip %d failed: %+v", i, err)
		}
	}
	if err := closeSink(); err != nil {
		fatalf("%s close failed: %+v", *sink, err)
	}

	snap := ledger.Snapshot()
	logs.Infof("paper completed: orders=%d positions=%d last seq=%d applied=%v",
		len(snap.Orders), len(snap.Positions), snap.LastSeq, metrics.Snapshot().Applied)
}

// openStore connects to Postgres and creates the orders and fills tables.
func openStore(ctx context.Context, envFile string) (*store.Store, func() error, error) {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	env, err := ops.LoadEnv(files...)
	if err != nil {
		return nil, nil, err
	}
	client, err := conn.New(env.Postgres.Option())
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	fillStore := store.New(client.DB())
	if err := fillStore.Migrate(ctx); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	logs.Infof("paper: writing to postgres %s", env.Postgres.Option().Redacted())
	return fillStore, client.Close, nil
}

type generator struct {
	ledger   *state.Ledger
	registry *schema.Registry
	rng      *rand.Rand
	clock    time.Time
	execSeq  int
}

func (g *generator) roundTrip(i int) error {
	inst, _ := g.registry.InstrumentAt(i % g.registry.InstrumentCount())
	positionID := model.PositionID(fmt.Sprintf("P-%06d", i+1))
	openSide := enum.OrderSideBuy
	if g.rng.IntN(2) == 1 {
		openSide = enum.OrderSideSell
	}
	qty := model.Quantity(1_000 * (1 + g.rng.IntN(100)))
	base := 100_000 + g.rng.Int64N(20_000)

	if err := g.order(inst, fmt.Sprintf("O-%06d-A", i+1), positionID, enum.FillKindEntry, openSide, qty, base); err != nil {
		return err
	}
	exitBase := base + g.rng.Int64N(41) - 20
	return g.order(inst, fmt.Sprintf("O-%06d-B", i+1), positionID, enum.FillKindExit, openSide.Opposite(), qty, exitBase)
}

// order submits a limit order at base ticks and fills it in up to three executions.
func (g *generator) order(inst schema.Instrument, id string, positionID model.PositionID, kind enum.FillKind, side enum.OrderSide, qty model.Quantity, base int64) error {
	price := g.price(inst, base)
	if _, err := g.ledger.SubmitOrder(order.Params{
		ID:       model.OrderID(id),
		Symbol:   inst.Symbol,
		Side:     side,
		Type:     enum.OrderTypeLimit,
		Price:    &price,
		Quantity: qty,
	}); err != nil {
		return err
	}

	parts := 1 + g.rng.IntN(3)
	remaining := qty
	for n := 0; n < parts && remaining > 0; n++ {
		fillQty := remaining
		if n < parts-1 {
			fillQty = remaining / model.Quantity(parts-n)
		}
		remaining -= fillQty

		g.execSeq++
		execID := fmt.Sprintf("E-%08d", g.execSeq)
		g.clock = g.clock.Add(time.Duration(1+g.rng.IntN(5000)) * time.Millisecond)
		fill := event.OrderFilled{
			OrderID:         model.OrderID(id),
			AccountID:       "PAPER",
			ExecutionID:     model.ExecutionID(execID),
			ExecutionTicket: model.ExecutionTicket(fmt.Sprintf("T-%08d", g.execSeq)),
			Symbol:          inst.Symbol,
			Side:            side,
			FilledQuantity:  fillQty,
			FillPrice:       g.price(inst, base+g.rng.Int64N(5)-2),
			ExecutionTime:   g.clock,
			EventID:         model.EventIDFor(execID),
			EventTime:       g.clock,
		}
		if _, err := g.ledger.ApplyFill(fill); err != nil {
			return err
		}
		if _, err := g.ledger.ApplyPositionFill(event.PositionFill{PositionID: positionID, Kind: kind, Fill: fill}); err != nil {
			return err
		}
	}
	return nil
}

// price turns ticks into a price at the instrument precision.
func (g *generator) price(inst schema.Instrument, ticks int64) model.Price {
	return model.NewPrice(decimal.New(ticks, -inst.PricePrecision), inst.PricePrecision)
}

func fatalf(format string, args ...any) {
	logs.Errorf(format, args...)
	os.Exit(1)
}
