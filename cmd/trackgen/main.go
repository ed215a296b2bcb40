// cmd/trackgen/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/opd-ai/go-circuit-racer/pkg/bridge"
	"github.com/opd-ai/go-circuit-racer/pkg/logging"
	"github.com/opd-ai/go-circuit-racer/pkg/track"
)

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	trackName := flag.String("track", "monza", "Track layout to export")
	format := flag.String("format", "json", "Output format: json or msgpack")
	outPath := flag.String("out", "", "Output file, stdout when empty")
	flag.Parse()

	layout, err := track.Load(*trackName)
	if err != nil {
		logger.Error(ctx, "Unknown track", err, "available", track.Names())
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			logger.Error(ctx, "Failed to create output file", err, "path", *outPath)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if err := export(out, layout, *format); err != nil {
		logger.Error(ctx, "Export failed", err, "track", layout.Name, "format", *format)
		os.Exit(1)
	}
	logger.Info(ctx, "Exported track",
		"track", layout.Name,
		"format", *format,
		"shapes", len(layout.Shapes()),
	)
}

// export writes the wire form of layout in the given format.
func export(w io.Writer, layout *track.Layout, format string) error {
	msg := bridge.NewTrackMsg(layout)
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(msg)
	case "msgpack":
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		return enc.Encode(msg)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
