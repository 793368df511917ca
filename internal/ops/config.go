package ops

import (
	"os"

	"github.com/bytedance/sonic"
	"github.com/yanun0323/errors"

	"tradereport/internal/model"
	"tradereport/internal/recorder"
	"tradereport/internal/schema"
	"tradereport/internal/state"
	"tradereport/pkg/exception"
)

const defaultQueueSize = 1024

// FileConfig mirrors the JSON config layout.
type FileConfig struct {
	Registry RegistryConfig  `json:"registry"`
	Journal  recorder.Config `json:"journal"`
	Ledger   state.Config    `json:"ledger"`
}

// RegistryConfig defines venue and instrument mappings.
type RegistryConfig struct {
	Venues  []VenueConfig  `json:"venues"`
	Symbols []SymbolConfig `json:"symbols"`
}

// VenueConfig describes a venue entry.
type VenueConfig struct {
	Name string `json:"name"`
}

// SymbolConfig describes an instrument entry.
type SymbolConfig struct {
	Name           string `json:"name"`
	Venue          string `json:"venue"`
	PricePrecision int32  `json:"pricePrecision"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Registry *schema.Registry
	Journal  recorder.Config
	Ledger   state.Config
}

// Playback returns the playback settings matching the journal writer.
func (l Loaded) Playback() recorder.PlaybackConfig {
	return recorder.PlaybackConfig{
		Dir:        l.Journal.Dir,
		FilePrefix: l.Journal.FilePrefix,
	}
}

// Load reads a JSON config file and builds the registry.
func Load(path string) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, errors.Wrapf(err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes a JSON config document.
func Parse(data []byte) (Loaded, error) {
	var cfg FileConfig
	if err := sonic.Unmarshal(data, &cfg); err != nil {
		return Loaded{}, errors.Wrapf(exception.ErrInvalidArgument, "decode config, err: %+v", err)
	}
	registry, err := buildRegistry(cfg.Registry)
	if err != nil {
		return Loaded{}, err
	}
	if cfg.Journal.Dir != "" {
		cfg.Journal = cfg.Journal.WithDefaults()
		if err := cfg.Journal.Validate(); err != nil {
			return Loaded{}, err
		}
	}
	if cfg.Ledger.QueueSize <= 0 {
		cfg.Ledger.QueueSize = defaultQueueSize
	}
	return Loaded{
		Registry: registry,
		Journal:  cfg.Journal,
		Ledger:   cfg.Ledger,
	}, nil
}

func buildRegistry(cfg RegistryConfig) (*schema.Registry, error) {
	reg := schema.NewRegistry()
	for _, venue := range cfg.Venues {
		if _, err := reg.AddVenue(venue.Name); err != nil {
			return nil, err
		}
	}
	for _, sym := range cfg.Symbols {
		if _, err := reg.AddInstrument(model.NewSymbol(sym.Name, sym.Venue), sym.PricePrecision); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
