package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/olekukonko/tablewriter"

	"github.com/ampizza/pizza-shop/internal/config"
	"github.com/ampizza/pizza-shop/internal/lib/logger"
	"github.com/ampizza/pizza-shop/internal/service"
	"github.com/ampizza/pizza-shop/internal/storage"
)

// Консольный отчёт по продажам: те же выборки, что и у панели
// администратора, но в виде таблиц для терминала.
func main() {
	var period string
	flag.StringVar(&period, "period", "weekly", "report period: daily, weekly, monthly or yearly")
	cfg := config.MustLoad()

	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		log.Fatal("DB_PASSWORD environment variable is required")
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.Database.User, dbPassword, cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	logg := logger.SetupLogger(cfg.Env)
	salesService := service.NewSalesService(logg, storage.NewSalesRepository(db))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	report, err := salesService.Report(ctx, period)
	if err != nil {
		log.Fatalf("failed to build report: %v", err)
	}

	fmt.Printf("Sales report (%s): %s — %s\n\n",
		report.Period,
		report.StartDate.Format("2006-01-02"),
		report.EndDate.Format("2006-01-02"))

	summary := tablewriter.NewTable(os.Stdout)
	summary.Header("Total Sales", "Orders", "Avg Order", "Delivery Charges")
	summary.Append([]string{
		fmt.Sprintf("%.2f", report.Summary.TotalSales),
		fmt.Sprintf("%d", report.Summary.TotalOrders),
		fmt.Sprintf("%.2f", report.Summary.AverageOrderValue),
		fmt.Sprintf("%.2f", report.Summary.TotalDeliveryCharges),
	})
	summary.Render()

	fmt.Println("\nOrders by status:")
	statuses := tablewriter.NewTable(os.Stdout)
	statuses.Header("Status", "Orders")
	for status, count := range report.Summary.StatusCounts {
		statuses.Append([]string{status, fmt.Sprintf("%d", count)})
	}
	statuses.Render()

	fmt.Println("\nTop products:")
	top := tablewriter.NewTable(os.Stdout)
	top.Header("Product", "Quantity", "Revenue")
	for _, product := range report.TopProducts {
		top.Append([]string{product.Name, fmt.Sprintf("%d", product.Quantity), fmt.Sprintf("%.2f", product.Revenue)})
	}
	top.Render()

	fmt.Println("\nDaily breakdown:")
	daily := tablewriter.NewTable(os.Stdout)
	daily.Header("Day", "Orders", "Total")
	for _, day := range report.DailySales {
		daily.Append([]string{day.Day.Format("2006-01-02"), fmt.Sprintf("%d", day.Orders), fmt.Sprintf("%.2f", day.Total)})
	}
	daily.Render()
}
