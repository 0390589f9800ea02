// Package main is an operator CLI for the configured schema storage.
//
// Usage:
//
//	schemactl [-config FILE] export [-object ApiName] [-format json|yaml] [-o FILE]
//	schemactl [-config FILE] import [-merge] FILE|-
//	schemactl [-config FILE] history
//	schemactl [-config FILE] rollback VERSION
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/nexuscrm/builder/internal/application/services"
	"github.com/nexuscrm/builder/internal/bootstrap"
	"github.com/nexuscrm/builder/internal/codec"
	"github.com/nexuscrm/builder/internal/config"
	"github.com/nexuscrm/builder/pkg/logging"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: schemactl [-config FILE] <export|import|history|rollback> [args]")
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "optional YAML config file")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, err := logging.New(cfg.Env, "warn")
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}

	ctx := context.Background()
	repo, closer, err := bootstrap.OpenRepository(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open schema storage", zap.String("driver", cfg.Storage), zap.Error(err))
	}
	defer closer.Close()

	store, err := services.NewSchemaStore(ctx, repo, services.WithLogger(logger))
	if err != nil {
		closer.Close()
		logger.Fatal("Failed to load schema", zap.Error(err))
	}

	cmd, args := flag.Arg(0), flag.Args()[1:]
	switch cmd {
	case "export":
		err = runExport(store, args)
	case "import":
		err = runImport(ctx, store, args)
	case "history":
		err = runHistory(ctx, store)
	case "rollback":
		err = runRollback(ctx, store, args)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		closer.Close()
		logger.Fatal("Command failed", zap.String("command", cmd), zap.Error(err))
	}
}

func runExport(store *services.SchemaStore, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	objectName := fs.String("object", "", "export only this object")
	formatName := fs.String("format", "json", "json or yaml")
	outPath := fs.String("o", "", "write to FILE instead of stdout")
	_ = fs.Parse(args)

	format, err := codec.ParseFormat(*formatName)
	if err != nil {
		return err
	}
	data, err := store.ExportSchema(*objectName, format)
	if err != nil {
		return err
	}
	if *outPath == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(*outPath, data, 0o644)
}

func runImport(ctx context.Context, store *services.SchemaStore, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	merge := fs.Bool("merge", false, "merge objects by apiName instead of replacing the schema")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one input file")
	}

	var data []byte
	var err error
	if fs.Arg(0) == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(fs.Arg(0))
	}
	if err != nil {
		return err
	}

	result, err := store.ImportSchema(ctx, data, *merge)
	if err != nil {
		return err
	}
	version, err := store.Save(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d objects (%d replaced), %d permission sets; saved as version %d\n",
		result.Objects, result.Replaced, result.PermissionSets, version)
	return nil
}

func runHistory(ctx context.Context, store *services.SchemaStore) error {
	snapshots, err := store.History(ctx)
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		fmt.Println("No saved versions")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tUPDATED\tOBJECTS")
	for _, snap := range snapshots {
		fmt.Fprintf(w, "%d\t%s\t%d\n", snap.Version, snap.UpdatedAt.Format(time.RFC3339), len(snap.Objects))
	}
	return w.Flush()
}

func runRollback(ctx context.Context, store *services.SchemaStore, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected a version number")
	}
	version, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid version %q", args[0])
	}
	restored, err := store.Rollback(ctx, version)
	if err != nil {
		return err
	}
	fmt.Printf("Restored version %d as version %d\n", version, restored.Version)
	return nil
}
