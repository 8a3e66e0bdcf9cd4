/*
 * Copyright (c) 2018 XLAB d.o.o
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Command dppsample draws exact samples from a finite determinantal
// point process whose kernel is read from a CSV file.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/dpp-project/godpp/data"
	"github.com/dpp-project/godpp/finite"
	"github.com/dpp-project/godpp/sample"
)

// Config drives a sampling run.
type Config struct {
	// Kernel is the path of a CSV file holding the square kernel
	// matrix, one row per line.
	Kernel string `yaml:"kernel"`
	// Type is "correlation" (default) or "likelihood".
	Type string `yaml:"type"`
	// Projection declares the kernel to be an orthogonal projection.
	Projection bool `yaml:"projection"`
	// Mode selects the projection chain rule variant (GS, Chol,
	// Schur); empty picks the default for the kernel.
	Mode string `yaml:"mode"`
	// Size requests fixed-size (k-DPP) samples; 0 leaves the sample
	// size random.
	Size int `yaml:"size"`
	// Samples is the number of samples to draw.
	Samples int `yaml:"samples"`
	// Seed makes the run reproducible; 0 draws fresh randomness.
	Seed uint64 `yaml:"seed"`
	// Output is the path of the output CSV; empty writes to stdout.
	Output string `yaml:"output"`
}

func loadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{Samples: 1, Type: "correlation"}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, err
	}
	if cfg.Kernel == "" {
		return nil, fmt.Errorf("config is missing the kernel path")
	}
	if cfg.Samples < 1 {
		return nil, fmt.Errorf("samples must be at least 1")
	}

	return cfg, nil
}

func loadKernel(path string) (data.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}

	rows := make([]data.Vector, len(records))
	for i, rec := range records {
		rows[i] = make(data.Vector, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %d: %w", i+1, j+1, err)
			}
			rows[i][j] = v
		}
	}

	return data.NewMatrix(rows)
}

func run(cfg *Config, out io.Writer, logger zerolog.Logger) error {
	kernel, err := loadKernel(cfg.Kernel)
	if err != nil {
		return fmt.Errorf("load kernel: %w", err)
	}

	kind := finite.Correlation
	switch cfg.Type {
	case "", "correlation":
	case "likelihood":
		kind = finite.Likelihood
	default:
		return fmt.Errorf("unknown kernel type %q", cfg.Type)
	}

	dpp, err := finite.NewDPP(kind, kernel, cfg.Projection)
	if err != nil {
		return fmt.Errorf("build process: %w", err)
	}

	var src rand.Source
	if cfg.Seed != 0 {
		src = sample.NewSource(cfg.Seed)
	}

	logger.Info().
		Int("ground_set", dpp.GroundSetSize()).
		Str("type", cfg.Type).
		Bool("projection", cfg.Projection).
		Int("samples", cfg.Samples).
		Msg("sampling")

	w := csv.NewWriter(out)
	for i := 0; i < cfg.Samples; i++ {
		var idx []int
		switch {
		case cfg.Projection:
			idx, err = dpp.SampleProjection(finite.Mode(cfg.Mode), cfg.Size, src)
		case cfg.Size > 0:
			idx, err = dpp.SampleK(cfg.Size, src)
		default:
			idx, err = dpp.Sample(src)
		}
		if err != nil {
			return fmt.Errorf("sample %d: %w", i+1, err)
		}

		rec := make([]string, len(idx))
		for j, v := range idx {
			rec[j] = strconv.Itoa(v)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()

	return w.Error()
}

func main() {
	configPath := flag.String("config", "dppsample.yaml", "path to config file (YAML)")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Str("component", "dppsample").Logger()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	out, closeOut, err := openOutput(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("open output")
	}

	// close before any Fatal below; Fatal exits and skips defers
	err = run(cfg, out, logger)
	if cerr := closeOut(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("sampling failed")
	}
}

// openOutput resolves the writer samples go to. The returned close
// function is a no-op when writing to stdout.
func openOutput(cfg *Config) (io.Writer, func() error, error) {
	if cfg.Output == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(cfg.Output)
	if err != nil {
		return nil, nil, err
	}

	return f, f.Close, nil
}
