package service

import (
	"context"
	"fmt"

	"github.com/bitfantasy/procure/internal/procurement/repository"
	"github.com/xuri/excelize/v2"
)

// ExportService 商务评标（CBE）对比表导出
type ExportService struct {
	pkgRepo   *repository.PackageRepository
	itemRepo  *repository.ItemRepository
	quoteRepo *repository.QuoteRepository
}

func NewExportService(
	pkgRepo *repository.PackageRepository,
	itemRepo *repository.ItemRepository,
	quoteRepo *repository.QuoteRepository,
) *ExportService {
	return &ExportService{pkgRepo: pkgRepo, itemRepo: itemRepo, quoteRepo: quoteRepo}
}

// CBERow 评标对比行（已聚合的表格数据，文件编码是表现层职责）
type CBERow struct {
	ItemID        string   `json:"item_id"`
	Name          string   `json:"name"`
	Specification string   `json:"specification"`
	Quantity      float64  `json:"quantity"`
	Unit          string   `json:"unit"`
	QuoteCount    int      `json:"quote_count"`
	BestPrice     *float64 `json:"best_price"`
	Currency      string   `json:"currency"`
	BestSupplier  string   `json:"best_supplier"`
}

// CBERows 逐行项汇总最优合规报价。无合规报价的行项BestPrice为空，
// 绝不回退为0价。
func (s *ExportService) CBERows(ctx context.Context, packageID string) ([]CBERow, error) {
	items, err := s.itemRepo.FindByPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	quotes, err := s.quoteRepo.FindByPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	grouped := GroupQuotesByItem(quotes)

	rows := make([]CBERow, 0, len(items))
	for _, item := range items {
		itemQuotes := grouped[item.ID]
		row := CBERow{
			ItemID:        item.ID,
			Name:          item.Name,
			Specification: item.Specification,
			Quantity:      item.Quantity,
			Unit:          item.Unit,
			QuoteCount:    len(itemQuotes),
		}
		if best := BestCompliantQuote(itemQuotes); best != nil {
			price := best.Price
			row.BestPrice = &price
			row.Currency = best.Currency
			if best.Supplier != nil {
				row.BestSupplier = best.Supplier.Name
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// cbeTotal 汇总各行项最优报价小计。小计只能在单一币种下相加，
// 跨币种返回MixedCurrencyError，绝不静默混加。
func cbeTotal(rows []CBERow) (float64, string, error) {
	var total float64
	currencies := map[string]bool{}
	for _, r := range rows {
		if r.BestPrice == nil {
			continue
		}
		total += *r.BestPrice * r.Quantity
		currencies[r.Currency] = true
	}
	if len(currencies) > 1 {
		return 0, "", &MixedCurrencyError{Currencies: sortedKeys(currencies)}
	}
	for c := range currencies {
		return total, c, nil
	}
	return 0, "", nil
}

var cbeExportHeaders = []string{
	"序号", "行项名称", "规格", "数量", "单位", "报价数", "最优价", "币种", "最优供应商", "小计",
}

// ExportCBE 导出评标对比表为xlsx
func (s *ExportService) ExportCBE(ctx context.Context, packageID string) (*excelize.File, string, error) {
	pkg, err := s.pkgRepo.FindByID(ctx, packageID)
	if err != nil {
		return nil, "", fmt.Errorf("package not found: %w", err)
	}

	rows, err := s.CBERows(ctx, packageID)
	if err != nil {
		return nil, "", fmt.Errorf("collect rows: %w", err)
	}
	totalValue, currency, err := cbeTotal(rows)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheet := "CBE"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range cbeExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, r := range rows {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), rowIdx+1)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.Name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Specification)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.Unit)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.QuoteCount)
		if r.BestPrice != nil {
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), *r.BestPrice)
			f.SetCellValue(sheet, fmt.Sprintf("H%d", row), r.Currency)
			f.SetCellValue(sheet, fmt.Sprintf("I%d", row), r.BestSupplier)
			f.SetCellValue(sheet, fmt.Sprintf("J%d", row), *r.BestPrice*r.Quantity)
		} else {
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), "无合规报价")
		}
	}

	summaryRow := len(rows) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "汇总")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow), fmt.Sprintf("总行项数: %d", len(rows)))
	f.SetCellValue(sheet, fmt.Sprintf("H%d", summaryRow), currency)
	f.SetCellValue(sheet, fmt.Sprintf("J%d", summaryRow), totalValue)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("J%d", summaryRow), summaryStyle)

	colWidths := []float64{6, 20, 20, 8, 6, 8, 10, 8, 18, 12}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("CBE_%s.xlsx", pkg.Code)
	return f, filename, nil
}
