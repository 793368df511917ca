package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/yanun0323/logs"

	"tradereport/internal/codec"
	"tradereport/internal/recorder"
	"tradereport/internal/schema"
)

func main() {
	dir := flag.String("dir", "testdata/journal", "Journal directory")
	prefix := flag.String("prefix", "", "Journal file prefix (default: journal)")
	noChecksum := flag.Bool("no-checksum", false, "Disable checksum validation")
	maxPayload := flag.Int("max-payload", 0, "Max payload size in bytes (0=4 MiB)")
	decode := flag.Bool("decode", false, "Decode known payload types")
	flag.Parse()

	pb, err := recorder.NewPlayback(recorder.PlaybackConfig{
		Dir:             *dir,
		FilePrefix:      *prefix,
		DisableChecksum: *noChecksum,
		MaxPayloadSize:  *maxPayload,
	})
	if err != nil {
		logs.Errorf("playback init failed: %+v", err)
		os.Exit(1)
	}

	var index int
	_, err = pb.Run(context.Background(), func(header schema.EventHeader, payload []byte) error {
		index++
		fmt.Printf("%06d seq=%d type=%s ts_event=%d ts_recv=%d len=%d\n", index, header.Seq, header.Type, header.TsEvent, header.TsRecv, len(payload))
		if *decode {
			printDecoded(header.Type, payload)
		}
		return nil
	})
	if err != nil {
		logs.Errorf("playback run failed: %+v", err)
		os.Exit(1)
	}
}

func printDecoded(t schema.EventType, payload []byte) {
	switch t {
	case schema.EventOrderAccepted:
		p, err := codec.DecodeOrder(payload)
		if err != nil {
			fmt.Printf("  decode OrderAccepted failed: %v\n", err)
			return
		}
		price := "-"
		if p.Price != nil {
			price = p.Price.String()
		}
		fmt.Printf("  order id=%s symbol=%s side=%s type=%s price=%s qty=%d\n",
			p.ID, p.Symbol, p.Side, p.Type, price, p.Quantity)
	case schema.EventOrderFilled:
		fill, err := codec.DecodeFill(payload)
		if err != nil {
			fmt.Printf("  decode OrderFilled failed: %v\n", err)
			return
		}
		fmt.Printf("  fill order=%s exec=%s symbol=%s side=%s price=%s qty=%d\n",
			fill.OrderID, fill.ExecutionID, fill.Symbol, fill.Side, fill.FillPrice, fill.FilledQuantity)
	case schema.EventPositionFill:
		pf, err := codec.DecodePositionFill(payload)
		if err != nil {
			fmt.Printf("  decode PositionFill failed: %v\n", err)
			return
		}
		fmt.Printf("  position=%s kind=%s exec=%s side=%s price=%s qty=%d\n",
			pf.PositionID, pf.Kind, pf.Fill.ExecutionID, pf.Fill.Side, pf.Fill.FillPrice, pf.Fill.FilledQuantity)
	default:
		return
	}
}
