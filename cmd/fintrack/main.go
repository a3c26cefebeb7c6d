package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ivanoskov/fintrack/internal/auth"
	"github.com/ivanoskov/fintrack/internal/charts"
	"github.com/ivanoskov/fintrack/internal/config"
	"github.com/ivanoskov/fintrack/internal/demo"
	"github.com/ivanoskov/fintrack/internal/ledger"
	"github.com/ivanoskov/fintrack/internal/prefs"
	"github.com/ivanoskov/fintrack/internal/repository"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	client, err := repository.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseKey)
	if err != nil {
		log.Fatal(err)
	}

	prefStore, err := prefs.NewStore(cfg.PrefsPath())
	if err != nil {
		log.Fatal(err)
	}

	authService := auth.NewService(client, prefStore)
	store := repository.NewSupabaseRepository(client)
	led := ledger.New(store, authService, prefStore)

	ctx := context.Background()
	if err := led.Init(ctx); err != nil {
		log.Fatal(err)
	}

	if !led.IsAuthenticated() {
		if cfg.Email == "" || cfg.Password == "" {
			log.Fatal("not signed in: set FINTRACK_EMAIL and FINTRACK_PASSWORD")
		}
		if err := led.SignIn(ctx, cfg.Email, cfg.Password); err != nil {
			log.Fatal(err)
		}
	}

	command := "summary"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "summary":
		printSummary(led)
	case "export":
		data, err := led.ExportData()
		if err != nil {
			log.Fatal(err)
		}
		os.Stdout.Write(data)
		fmt.Println()
	case "csv":
		csv := led.ExportCSV()
		if csv == "" {
			log.Fatal("no expenses to export for " + led.MonthLabel(""))
		}
		fmt.Println(csv)
	case "charts":
		if err := renderCharts(led, cfg.DataDir); err != nil {
			log.Fatal(err)
		}
	case "demo":
		if err := demo.Seed(ctx, led, 6); err != nil {
			log.Fatal(err)
		}
		printSummary(led)
	default:
		log.Fatalf("unknown command %q (want summary, export, csv, charts or demo)", command)
	}
}

func printSummary(led *ledger.Ledger) {
	profile := led.Profile()
	currency := led.Currency()

	fmt.Printf("%s — %s\n", profile.Name, led.MonthLabel(""))
	fmt.Printf("Budget: %s%.2f  Income: %s%.2f  Spent: %s%.2f\n",
		currency, led.Budget(), currency, led.Income(), currency, led.TotalSpent())

	for _, item := range led.SpendingByCategory() {
		fmt.Printf("  %-16s %s%.2f\n", item.Name, currency, item.Total)
	}
}

func renderCharts(led *ledger.Ledger, dir string) error {
	generator := charts.NewChartGenerator()

	donut, err := generator.SpendingDonut(led.SpendingByCategory(), led.Currency())
	if err != nil {
		return err
	}
	if donut != nil {
		path := filepath.Join(dir, "spending.png")
		if err := os.WriteFile(path, donut, 0o644); err != nil {
			return err
		}
		log.Printf("Записан %s", path)
	}

	trendChart, err := generator.MonthlyTrendChart(led.MonthlyTrend(6), led.Currency())
	if err != nil {
		return err
	}
	if trendChart != nil {
		path := filepath.Join(dir, "trend.png")
		if err := os.WriteFile(path, trendChart, 0o644); err != nil {
			return err
		}
		log.Printf("Записан %s", path)
	}
	return nil
}
