package service

import (
	"context"
	"time"

	"github.com/mverbeke/kassa-api/internal/domain/enum"
	"github.com/mverbeke/kassa-api/internal/domain/repository"
)

// ReportService aggregates sales for reporting
type ReportService struct {
	saleRepo repository.SaleRepository
}

// NewReportService creates a new report service
func NewReportService(saleRepo repository.SaleRepository) *ReportService {
	return &ReportService{saleRepo: saleRepo}
}

// DailySalesReport is one day's aggregate, money in cents
type DailySalesReport struct {
	Date          string          `json:"date"` // YYYY-MM-DD
	SalesCount    int             `json:"sales_count"`
	Gross         int64           `json:"gross"`
	Net           int64           `json:"net"`
	VAT6          int64           `json:"vat_6"`
	VAT12         int64           `json:"vat_12"`
	VAT21         int64           `json:"vat_21"`
	CashTotal     int64           `json:"cash_total"`
	CardTotal     int64           `json:"card_total"`
	RefundedCount int             `json:"refunded_count"`
	RefundedTotal int64           `json:"refunded_total"`
	FirstSaleAt   *time.Time      `json:"first_sale_at,omitempty"`
	LastSaleAt    *time.Time      `json:"last_sale_at,omitempty"`
	TopProducts   []ProductVolume `json:"top_products,omitempty"`
}

// ProductVolume is units sold for one product within the report window
type ProductVolume struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// Daily builds the aggregate for one calendar day, using a half-open
// [midnight, next midnight) window in the date's location
func (s *ReportService) Daily(ctx context.Context, date time.Time) (*DailySalesReport, error) {
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	to := from.AddDate(0, 0, 1).Add(-time.Nanosecond)

	sales, err := s.saleRepo.List(ctx, &repository.SaleFilterParams{
		StartDate: &from,
		EndDate:   &to,
	})
	if err != nil {
		return nil, err
	}

	report := &DailySalesReport{
		Date:       from.Format("2006-01-02"),
		SalesCount: len(sales),
	}

	volumes := make(map[string]*ProductVolume)

	for i := range sales {
		sale := &sales[i]
		report.Gross += sale.Total
		report.Net += sale.SubTotal
		report.VAT6 += sale.VAT6
		report.VAT12 += sale.VAT12
		report.VAT21 += sale.VAT21

		switch sale.PaymentMethod {
		case enum.PaymentCash:
			report.CashTotal += sale.Total
		case enum.PaymentCard:
			report.CardTotal += sale.Total
		}

		if sale.Refunded {
			report.RefundedCount++
			report.RefundedTotal += sale.RefundAmount
		}

		soldAt := sale.SoldAt
		if report.FirstSaleAt == nil || soldAt.Before(*report.FirstSaleAt) {
			t := soldAt
			report.FirstSaleAt = &t
		}
		if report.LastSaleAt == nil || soldAt.After(*report.LastSaleAt) {
			t := soldAt
			report.LastSaleAt = &t
		}

		for _, item := range sale.Items {
			key := item.ProductID.String()
			if v, ok := volumes[key]; ok {
				v.Quantity += item.Quantity
			} else {
				volumes[key] = &ProductVolume{
					ProductID:   key,
					ProductName: item.ProductName,
					Quantity:    item.Quantity,
				}
			}
		}
	}

	report.TopProducts = topVolumes(volumes, 5)
	return report, nil
}

func topVolumes(volumes map[string]*ProductVolume, limit int) []ProductVolume {
	result := make([]ProductVolume, 0, len(volumes))
	for _, v := range volumes {
		result = append(result, *v)
	}

	// Selection by quantity descending; ties broken by name for a
	// stable report
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			if result[j].Quantity > result[i].Quantity ||
				(result[j].Quantity == result[i].Quantity && result[j].ProductName < result[i].ProductName) {
				result[i], result[j] = result[j], result[i]
			}
		}
	}

	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

// SalesTotals is an arbitrary-range money aggregate
type SalesTotals struct {
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
	Total int64     `json:"total"` // cents
}

// Totals sums sale totals over an inclusive range
func (s *ReportService) Totals(ctx context.Context, from, to time.Time) (*SalesTotals, error) {
	total, err := s.saleRepo.SumTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &SalesTotals{From: from, To: to, Total: total}, nil
}
