package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"metatube/pkg/codec"
	"metatube/pkg/config"
	"metatube/pkg/logging"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "metatube.yaml", "YAML configuration file")
	initConfig := flag.Bool("init-config", false, "Write a default configuration file to -config and exit")
	convert := flag.Bool("convert", false, "Convert inputs with the encoding from the config file")
	format := flag.String("format", "", "Convert inputs to this encoding: ascii or binary (overrides the config file)")
	parent := flag.String("parent", "", "Tube file that every input is attached to as its parent")
	elementType := flag.String("element-type", "", "On-disk element type for binary output (e.g. MET_FLOAT, MET_SHORT)")
	outputDir := flag.String("output-dir", "", "Directory for converted files (default: next to each input)")
	numCores := flag.Int("cores", 0, "Number of files processed concurrently (default: from config)")
	computeFrames := flag.Bool("compute-frames", false, "Recompute tangents and normals before writing")
	mesh := flag.Bool("stl", false, "Also write the swept tube surface of 3-D tubes as an STL file")
	segments := flag.Int("segments", 0, "Vertices per ring of the STL surface (default: from config)")
	preview := flag.Bool("preview", false, "Also write a JPEG projection of every tube")
	previewAxis := flag.String("preview-axis", "", "Projection axis of the preview: x, y or z (default: from config)")
	lenient := flag.Bool("lenient", false, "Write 0 for extra fields missing on a point instead of failing")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (default: from config)")
	flag.Parse()

	if *initConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *numCores > 0 {
		cfg.Batch.NumCores = *numCores
	}
	if *outputDir != "" {
		cfg.Batch.OutputDir = *outputDir
	}
	if *segments > 0 {
		cfg.Mesh.Segments = *segments
	}
	if *previewAxis != "" {
		cfg.Preview.Axis = *previewAxis
	}
	if *lenient {
		cfg.Codec.StrictFields = false
	}
	doConvert, err := conversion(cfg, *format, *convert)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if *elementType != "" {
		et, err := codec.ParseElementType(*elementType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid element type: %v\n", err)
			os.Exit(1)
		}
		cfg.Codec.ElementType = et
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	job := &Job{
		Config:        cfg,
		Log:           logger,
		ComputeFrames: *computeFrames,
		Mesh:          *mesh,
		Preview:       *preview,
		Convert:       doConvert,
		Parent:        *parent,
	}

	results, err := job.Run(context.Background(), flag.Args())
	for _, r := range results {
		printResult(r)
	}
	if err != nil {
		logger.WithError(err).Fatal("Processing failed")
	}
	logger.WithFields(logrus.Fields{"files": len(results)}).Info("Done")
}

// conversion applies the -format flag to cfg and reports whether inputs are
// rewritten. Without -format, the encoding comes from cfg.Codec.Binary.
func conversion(cfg *config.Config, format string, convert bool) (bool, error) {
	switch strings.ToLower(format) {
	case "":
		return convert, nil
	case "ascii":
		cfg.Codec.Binary = false
	case "binary":
		cfg.Codec.Binary = true
	default:
		return false, errors.Errorf("unknown format %q: want ascii or binary", format)
	}
	return true, nil
}

// printResult prints the summary of one processed file.
func printResult(r Result) {
	s := r.Summary
	fmt.Printf("%s\n", r.Input)
	fmt.Printf("  Dimension: %d\n", s.Dimension)
	fmt.Printf("  Points: %d\n", s.Points)
	fmt.Printf("  Length: %.3f\n", s.Length)
	fmt.Printf("  Radius: mean %.3f, std %.3f, min %.3f, max %.3f\n",
		s.MeanRadius, s.StdRadius, s.MinRadius, s.MaxRadius)
	if len(s.Min) > 0 {
		fmt.Printf("  Bounds: %v - %v\n", s.Min, s.Max)
	}
	if len(s.ExtraFields) > 0 {
		fmt.Printf("  Extra fields: %s\n", strings.Join(s.ExtraFields, " "))
	}
	if r.ParentPoint >= 0 {
		fmt.Printf("  Parent point: %d\n", r.ParentPoint)
	}
	if r.Output != "" {
		fmt.Printf("  Written to: %s\n", r.Output)
	}
	if r.Mesh != "" {
		fmt.Printf("  Surface: %s\n", r.Mesh)
	}
	if r.Preview != "" {
		fmt.Printf("  Preview: %s\n", r.Preview)
	}
}
