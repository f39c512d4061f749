package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ikkim/storefront-account/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Catalogue columns: SKU, Name, Price, Stock, Image URL (optional).
const minCatalogueColumns = 4

func defaultProducts() []model.Product {
	return []model.Product{
		{SKU: "MUG-001", Name: "Stoneware Mug", Price: decimal.RequireFromString("18.00"), StockQuantity: 40},
		{SKU: "KET-001", Name: "Enamel Kettle", Price: decimal.RequireFromString("64.50"), StockQuantity: 12},
		{SKU: "LMP-001", Name: "Brass Desk Lamp", Price: decimal.RequireFromString("129.00"), StockQuantity: 5},
		{SKU: "VAS-001", Name: "Glass Vase", Price: decimal.RequireFromString("42.00"), StockQuantity: 0},
		{SKU: "THR-001", Name: "Wool Throw", Price: decimal.RequireFromString("89.99"), StockQuantity: 8},
	}
}

func readProductsFromXLSX(filePath string) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	products, skipped := parseProductRows(rows)
	fmt.Printf("Catalogue %s: %d products, %d rows skipped\n", sheetName, len(products), skipped)
	return products, nil
}

// parseProductRows skips the header row, rows missing a column, rows with
// an unparsable price or stock, and repeated SKUs.
func parseProductRows(rows [][]string) ([]model.Product, int) {
	var products []model.Product
	seen := make(map[string]bool)
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < minCatalogueColumns {
			skipped++
			continue
		}

		sku := strings.ToUpper(strings.TrimSpace(row[0]))
		name := strings.TrimSpace(row[1])
		price, errPrice := decimal.NewFromString(strings.TrimSpace(row[2]))
		stock, errStock := strconv.Atoi(strings.TrimSpace(row[3]))

		if sku == "" || name == "" || errPrice != nil || errStock != nil || price.IsNegative() || stock < 0 {
			skipped++
			continue
		}
		if seen[sku] {
			skipped++
			continue
		}
		seen[sku] = true

		product := model.Product{
			SKU:           sku,
			Name:          name,
			Price:         price.Round(2),
			StockQuantity: stock,
		}
		if len(row) > minCatalogueColumns {
			product.ImageURL = strings.TrimSpace(row[4])
		}
		products = append(products, product)
	}

	return products, skipped
}
