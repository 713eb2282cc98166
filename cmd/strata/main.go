package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/strata/pkg/arena"
	"github.com/ajitpratap0/strata/pkg/columnar"
	"github.com/ajitpratap0/strata/pkg/config"
	"github.com/ajitpratap0/strata/pkg/jsonutil"
	"github.com/ajitpratap0/strata/pkg/logger"
	"github.com/ajitpratap0/strata/pkg/pool"
	"github.com/ajitpratap0/strata/pkg/schema"
)

var version = "0.1.0"

// primitivesByName maps CLI type names to reserved handles.
var primitivesByName = map[string]schema.Handle{
	"u64":  schema.U64,
	"u32":  schema.U32,
	"u16":  schema.U16,
	"u8":   schema.U8,
	"i64":  schema.I64,
	"i32":  schema.I32,
	"i16":  schema.I16,
	"i8":   schema.I8,
	"f64":  schema.F64,
	"f32":  schema.F32,
	"bool": schema.Bool,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	var configPath string
	cfg := config.Default()

	root := &cobra.Command{
		Use:   "strata",
		Short: "strata - in-memory columnar store for runtime-registered types",
		Long: `strata stores instances of runtime-registered struct types in a columnar
layout: each field lives in its own contiguous append-only buffer, laid out
with native struct alignment rules computed at runtime.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			return logger.Init(logger.Config{
				Level:       cfg.Logging.Level,
				Development: cfg.Logging.Development,
				Encoding:    cfg.Logging.Encoding,
			})
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a strata config file")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("strata v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(newDemoCmd(&cfg))
	root.AddCommand(newDescribeCmd())
	root.AddCommand(newBenchCmd(&cfg))

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	_ = logger.Sync()
}

// newStore builds a store from the active configuration, wiring in an
// arena-backed allocator when one is configured.
func newStore(cfg *config.Config, reg *schema.Registry) (*columnar.Store, func(), error) {
	opts := []columnar.Option{columnar.WithLogger(logger.WithComponent("store"))}
	cleanup := func() {}

	if cfg.Performance.InitialRows > 0 {
		opts = append(opts, columnar.WithInitialCapacity(cfg.Performance.InitialRows))
	}

	if cfg.Memory.UseArena {
		pageSize, err := cfg.ArenaPageSizeBytes()
		if err != nil {
			return nil, nil, err
		}
		a, err := arena.New(cfg.Memory.ArenaPages, pageSize, logger.WithComponent("arena"))
		if err != nil {
			return nil, nil, err
		}
		if cfg.Memory.Prefault {
			a.Prefault()
		}
		logger.Info("arena allocator enabled",
			zap.Int("pages", cfg.Memory.ArenaPages),
			zap.Int("page_size", pageSize),
			zap.Bool("huge_pages", a.UsingHugePages()))
		opts = append(opts, columnar.WithAllocator(a))
		cleanup = func() { _ = a.Close() }
	}

	return columnar.NewStore(reg, opts...), cleanup, nil
}

func newDemoCmd(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Register a vec3 type, insert two rows, and query them back",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := schema.NewRegistry(logger.Get())
			vec3, err := reg.RegisterStruct([]schema.FieldSpec{
				{Name: "x", Type: schema.F64},
				{Name: "y", Type: schema.F64},
				{Name: "z", Type: schema.F64},
			})
			if err != nil {
				return err
			}

			store, cleanup, err := newStore(*cfg, reg)
			if err != nil {
				return err
			}
			defer cleanup()

			for _, v := range [][3]float64{{1, 1, 1}, {2, 3, 4}} {
				rec, err := columnar.NewRecord(reg, vec3)
				if err != nil {
					return err
				}
				for i, f := range v {
					if err := rec.SetF64(i, f); err != nil {
						return err
					}
				}
				if err := store.Insert(rec.Bytes(), vec3); err != nil {
					return err
				}
			}

			rows, n, err := store.QueryAll(vec3)
			if err != nil {
				return err
			}

			structSize := reg.SizeOf(vec3)
			for i := 0; i < n; i++ {
				view, err := columnar.NewRowView(reg, vec3, rows[i*structSize:])
				if err != nil {
					return err
				}
				x, _ := view.F64(0)
				y, _ := view.F64(1)
				z, _ := view.F64(2)
				fmt.Printf("row %d: {x: %g, y: %g, z: %g}\n", i, x, y, z)
			}
			return nil
		},
	}
}

func newDescribeCmd() *cobra.Command {
	var fieldSpecs []string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Compute and print the layout of a struct type",
		Long: `Registers a struct from --field name:type pairs (in order) and prints the
computed layout - size, alignment, and per-field byte offsets - as JSON.`,
		Example: "  strata describe --field a:u8 --field b:u64",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(fieldSpecs) == 0 {
				return fmt.Errorf("at least one --field name:type is required")
			}

			reg := schema.NewRegistry(logger.Get())
			specs := make([]schema.FieldSpec, 0, len(fieldSpecs))
			for _, raw := range fieldSpecs {
				name, typeName, ok := strings.Cut(raw, ":")
				if !ok {
					return fmt.Errorf("invalid field %q, want name:type", raw)
				}
				handle, ok := primitivesByName[strings.ToLower(typeName)]
				if !ok {
					return fmt.Errorf("unknown type %q in field %q", typeName, raw)
				}
				specs = append(specs, schema.FieldSpec{Name: name, Type: handle})
			}

			handle, err := reg.RegisterStruct(specs)
			if err != nil {
				return err
			}

			desc, err := reg.Describe(handle)
			if err != nil {
				return err
			}
			data, err := desc.JSON()
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&fieldSpecs, "field", nil, "struct field as name:type (repeatable, in order)")
	return cmd
}

func newBenchCmd(cfg **config.Config) *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Insert and query synthetic rows, reporting throughput and memory",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := schema.NewRegistry(logger.Get())
			vec3, err := reg.RegisterStruct([]schema.FieldSpec{
				{Name: "x", Type: schema.F64},
				{Name: "y", Type: schema.F64},
				{Name: "z", Type: schema.F64},
			})
			if err != nil {
				return err
			}

			store, cleanup, err := newStore(*cfg, reg)
			if err != nil {
				return err
			}
			defer cleanup()

			rec, err := columnar.NewRecord(reg, vec3)
			if err != nil {
				return err
			}

			start := time.Now()
			for i := 0; i < rows; i++ {
				v := float64(i)
				if err := rec.SetF64(0, v); err != nil {
					return err
				}
				if err := rec.SetF64(1, v+1); err != nil {
					return err
				}
				if err := rec.SetF64(2, v+2); err != nil {
					return err
				}
				if err := store.Insert(rec.Bytes(), vec3); err != nil {
					return err
				}
			}
			insertDur := time.Since(start)

			start = time.Now()
			dst := pool.Buffers.Get(store.NumRows(vec3) * reg.SizeOf(vec3))
			defer pool.Buffers.Put(dst)
			n, err := store.QueryAllInto(vec3, dst)
			if err != nil {
				return err
			}
			queryDur := time.Since(start)

			report := map[string]interface{}{
				"rows":               n,
				"insert_duration":    insertDur.String(),
				"insert_rows_per_s":  int64(float64(rows) / insertDur.Seconds()),
				"query_duration":     queryDur.String(),
				"store_memory_bytes": store.MemoryUsage(),
			}

			if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
				if memInfo, err := proc.MemoryInfo(); err == nil {
					report["process_rss_bytes"] = memInfo.RSS
				}
			}
			if vm, err := mem.VirtualMemory(); err == nil {
				report["host_available_bytes"] = vm.Available
			}

			return jsonutil.MarshalToWriter(os.Stdout, report)
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 1_000_000, "number of rows to insert")
	return cmd
}
