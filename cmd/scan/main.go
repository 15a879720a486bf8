// Command scan runs one trade scan from the terminal and prints a table.
//
//	scan -symbols HPG,VNM,FPT -timeframe 5m -rr 2
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"SharkScan/internal/di"
	"SharkScan/internal/domain/models"
	"SharkScan/internal/services/engine"
	"SharkScan/internal/usecase"
	"SharkScan/pkg/config"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "config file path")
		symbols    = flag.String("symbols", "", "comma separated symbols (max 10)")
		strategies = flag.String("strategies", "", "strategy selection, e.g. smc:window=10,wyckoff")
		timeframe  = flag.String("timeframe", "1m", "1m, 5m or 15m")
		rrMin      = flag.Float64("rr", 0, "minimum risk/reward (0 uses config)")
		timeout    = flag.Duration("timeout", 2*time.Minute, "overall scan timeout")
	)
	flag.Parse()

	if err := run(*configPath, *symbols, *strategies, *timeframe, *rrMin, *timeout); err != nil {
		fmt.Fprintln(os.Stderr, "scan:", err)
		os.Exit(1)
	}
}

func run(configPath, symbols, strategies, timeframe string, rrMin float64, timeout time.Duration) error {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return err
	}
	// Keep the terminal for the table.
	cfg.Log.Level = "warn"
	cfg.Log.Format = "console"
	cfg.Log.Output = "stderr"
	cfg.Kafka.Enabled = false

	svc, cleanup, err := di.InitializeTradeService(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	sel, err := engine.ParseSelection(strategies)
	if err != nil {
		return err
	}
	if rrMin <= 0 {
		rrMin = cfg.Trade.RRMin
	}
	preset := usecase.PresetFor(timeframe)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	res, err := svc.ScanSymbols(ctx, usecase.ScanParams{
		Symbols:   strings.Split(symbols, ","),
		Selection: sel,
		RRMin:     rrMin,
		Minutes:   preset.Minutes,
		Limit:     preset.Limit,
		Interval:  preset.Interval,
	})
	if errors.Is(err, usecase.ErrNoSymbols) {
		return fmt.Errorf("%w (use -symbols)", err)
	}
	if err != nil {
		return err
	}

	render(os.Stdout, res)
	return nil
}

func render(out *os.File, res *models.ScanResult) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(fmt.Sprintf("scan %s (%s)", res.ScanID, res.Took.Round(time.Millisecond)))
	t.AppendHeader(table.Row{"Symbol", "Status", "Score", "Entry", "SL", "TP", "RR", "Reason"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Score", Align: text.AlignRight},
		{Name: "Entry", Align: text.AlignRight},
		{Name: "SL", Align: text.AlignRight},
		{Name: "TP", Align: text.AlignRight},
		{Name: "RR", Align: text.AlignRight},
		{Name: "Reason", WidthMax: 48},
	})

	rows := append(append([]models.SignalOutcome{}, res.Found...), res.NoSetup...)
	for _, o := range rows {
		status := string(o.Status)
		if o.Status == models.StatusTradeSignal {
			status = text.FgGreen.Sprint(status)
		}
		t.AppendRow(table.Row{o.Symbol, status, score(o), num(o, entry), num(o, sl), num(o, tp), num(o, rr), o.Reason})
	}

	failed := make([]string, 0, len(res.Errors))
	for sym := range res.Errors {
		failed = append(failed, sym)
	}
	sort.Strings(failed)
	for _, sym := range failed {
		t.AppendRow(table.Row{sym, text.FgRed.Sprint("error"), "", "", "", "", "", res.Errors[sym]})
	}

	t.AppendFooter(table.Row{"", fmt.Sprintf("%d found", len(res.Found)), "", "", "", "", "", fmt.Sprintf("%d errors", len(res.Errors))})
	t.Render()
}

func score(o models.SignalOutcome) string {
	if o.Recommendation == nil {
		return ""
	}
	return fmt.Sprintf("%d", o.Recommendation.SharkScore)
}

func entry(r *models.TradeRecommendation) *float64 { return r.Entry }
func sl(r *models.TradeRecommendation) *float64    { return r.StopLoss }
func tp(r *models.TradeRecommendation) *float64    { return r.TakeProfit }
func rr(r *models.TradeRecommendation) *float64    { return r.RiskReward }

func num(o models.SignalOutcome, field func(*models.TradeRecommendation) *float64) string {
	if o.Recommendation == nil {
		return ""
	}
	v := field(o.Recommendation)
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}
