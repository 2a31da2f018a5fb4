// cmd/lunchtray/main.go
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sghaida/lunchtray/config"
	"github.com/sghaida/lunchtray/menu"
	"github.com/sghaida/lunchtray/money"
	"github.com/sghaida/lunchtray/order"
)

// This binary is a small host for the order package, standing in for the UI.
//
// It builds one order from flags, logs every published change, and prints
// the final summary. Settings come from LUNCHTRAY_* variables (optionally via
// a .env file) and flags override them.
//
// Exit codes: 0 ok, 1 the order could not be built, 2 usage error.

func main() {
	if err := config.LoadDotEnv(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	menuFile       string
	selections     [len(order.Courses)]string
	taxRate        string
	locale         string
	currency       string
	symbol         string
	logLevel       string
	list           bool
	reselectCharge bool
}

// run executes the CLI and returns an exit code.
// It exists separately from main to allow unit testing without os.Exit.
func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	flags := flag.NewFlagSet("lunchtray", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var opts options
	flags.StringVar(&opts.menuFile, "menu", cfg.MenuFile, "menu YAML file (built-in lunch menu when empty)")
	flags.StringVar(&opts.selections[order.Entree], "entree", "", "entree item key")
	flags.StringVar(&opts.selections[order.Side], "side", "", "side item key")
	flags.StringVar(&opts.selections[order.Accompaniment], "accompaniment", "", "accompaniment item key")
	flags.StringVar(&opts.taxRate, "tax-rate", cfg.TaxRate.String(), "tax rate as a fraction of the subtotal")
	flags.StringVar(&opts.locale, "locale", cfg.Locale, "BCP 47 locale for amounts")
	flags.StringVar(&opts.currency, "currency", cfg.Currency, "ISO 4217 currency code")
	flags.StringVar(&opts.symbol, "symbol", cfg.CurrencySymbol, "currency symbol prefix")
	flags.StringVar(&opts.logLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flags.BoolVar(&opts.list, "list", false, "print the menu and exit")
	flags.BoolVar(&opts.reselectCharge, "reselect-charge", false, "charge again when the same item is selected twice")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if flags.NArg() > 0 {
		_, _ = fmt.Fprintln(stderr, "usage: lunchtray [--menu FILE] [--entree KEY] [--side KEY] [--accompaniment KEY] [--list]")
		return 2
	}

	logger, err := newLogger(opts.logLevel, stderr)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	defer func() { _ = logger.Sync() }()

	rate, err := decimal.NewFromString(opts.taxRate)
	if err != nil {
		logger.Error("invalid tax rate", zap.String("tax_rate", opts.taxRate), zap.Error(err))
		return 2
	}
	formatter, err := money.NewFormatter(opts.locale, opts.currency, opts.symbol)
	if err != nil {
		logger.Error("invalid money format", zap.Error(err))
		return 2
	}

	catalog, err := loadCatalog(opts.menuFile)
	if err != nil {
		logger.Error("cannot load menu", zap.String("menu", opts.menuFile), zap.Error(err))
		return 1
	}

	if opts.list {
		printMenu(stdout, catalog, formatter)
		return 0
	}

	policy := order.ReselectNoOp
	if opts.reselectCharge {
		policy = order.ReselectCharge
	}
	st, err := order.New(catalog,
		order.WithTaxRate(rate),
		order.WithFormatter(formatter),
		order.WithLogger(logger),
		order.WithReselectPolicy(policy),
	)
	if err != nil {
		logger.Error("cannot create order", zap.Error(err))
		return 2
	}

	unsubscribe := st.Total().Subscribe(func(total string) {
		logger.Info("order updated",
			zap.String("order_id", st.ID().String()),
			zap.String("subtotal", st.Subtotal().Value()),
			zap.String("tax", st.Tax().Value()),
			zap.String("total", total))
	})
	defer unsubscribe()

	for _, c := range order.Courses {
		key := strings.TrimSpace(opts.selections[c])
		if key == "" {
			continue
		}
		if err := st.Set(c, key); err != nil {
			logger.Error("cannot select item", zap.Stringer("course", c), zap.String("key", key), zap.Error(err))
			return 1
		}
	}

	printSummary(stdout, st.Summary())
	return 0
}

func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

func loadCatalog(path string) (*menu.MapCatalog, error) {
	if path == "" {
		return menu.Default(), nil
	}
	return menu.LoadFile(path)
}

func printMenu(w io.Writer, cat *menu.MapCatalog, f *money.Formatter) {
	for _, t := range []menu.Type{menu.TypeEntree, menu.TypeSide, menu.TypeAccompaniment} {
		_, _ = fmt.Fprintf(w, "%s:\n", t)
		for _, it := range cat.ByType(t) {
			_, _ = fmt.Fprintf(w, "  %-12s %-26s %8s\n", it.Key, it.Name, f.Format(it.Price))
		}
	}
}

func printSummary(w io.Writer, s order.Summary) {
	_, _ = fmt.Fprintf(w, "Order %s\n", s.OrderID)
	for _, line := range []struct {
		label string
		item  *menu.Item
	}{
		{"Entree", s.Entree},
		{"Side", s.Side},
		{"Accompaniment", s.Accompaniment},
	} {
		name := "-"
		if line.item != nil {
			name = line.item.Name
		}
		_, _ = fmt.Fprintf(w, "  %-14s %s\n", line.label+":", name)
	}
	_, _ = fmt.Fprintf(w, "  %-14s %s\n", "Subtotal:", s.SubtotalText)
	_, _ = fmt.Fprintf(w, "  %-14s %s\n", "Tax:", s.TaxText)
	_, _ = fmt.Fprintf(w, "  %-14s %s\n", "Total:", s.TotalText)
}
