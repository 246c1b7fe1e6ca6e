package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jattu8602/ek-sub000/config"
	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/internal/app/repository"
	"github.com/jattu8602/ek-sub000/internal/db"
	"github.com/jattu8602/ek-sub000/pkg/util"
	"github.com/xuri/excelize/v2"
)

// Expected sheet layout, one product per row:
//
//	A name | B category | C subcategory | D description | E description_hindi
//	F images (pipe separated URLs) | G units
//
// Units are semicolon separated entries of the form
// "number unit:actual:discounted[:stock]", e.g. "1 kg:40:35:100; 500 g:22:20".
// A missing stock means unlimited.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	productRepo := repository.NewProductRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 200
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := productRepo.BulkCreate(products, batchSize); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
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

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	seen := make(map[string]bool)
	slugCounter := make(map[string]int)
	skippedCount := 0
	badUnitCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 7 {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(row[0])
		category := strings.TrimSpace(row[1])
		subcategory := strings.TrimSpace(row[2])
		description := strings.TrimSpace(row[3])
		descriptionHindi := strings.TrimSpace(row[4])
		imagesCol := strings.TrimSpace(row[5])
		unitsCol := strings.TrimSpace(row[6])

		if name == "" || category == "" || unitsCol == "" {
			skippedCount++
			continue
		}

		// Duplicate rows collapse on name+category.
		key := name + "|" + category
		if seen[key] {
			skippedCount++
			continue
		}
		seen[key] = true

		units, err := parseUnits(unitsCol)
		if err != nil {
			badUnitCount++
			skippedCount++
			continue
		}

		baseSlug := util.Slugify(name)
		slug := baseSlug
		if count, exists := slugCounter[baseSlug]; exists {
			slugCounter[baseSlug] = count + 1
			slug = fmt.Sprintf("%s-%d", baseSlug, count+1)
		} else {
			slugCounter[baseSlug] = 1
		}

		product := model.Product{
			Name:             name,
			URLSlug:          slug,
			Category:         category,
			Subcategory:      subcategory,
			Description:      description,
			DescriptionHindi: descriptionHindi,
			Status:           model.ProductStatusActive,
			Units:            units,
		}
		if imagesCol != "" {
			images := strings.Split(imagesCol, "|")
			for j := range images {
				images[j] = strings.TrimSpace(images[j])
			}
			product.SetImageList(images)
		}

		products = append(products, product)

		if len(products)%500 == 0 {
			fmt.Printf("Processed %d products...\n", len(products))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid products: %d\n", len(products))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)
	fmt.Printf("  Rows with malformed units: %d\n", badUnitCount)

	return products, nil
}

// parseUnits decodes "1 kg:40:35:100; 500 g:22:20" into product units.
func parseUnits(s string) ([]model.ProductUnit, error) {
	var units []model.ProductUnit

	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, ":")
		if len(parts) < 3 {
			return nil, fmt.Errorf("unit entry %q needs at least size:actual:discounted", entry)
		}

		sizeFields := strings.Fields(strings.TrimSpace(parts[0]))
		if len(sizeFields) != 2 {
			return nil, fmt.Errorf("unit size %q must be like \"1 kg\"", parts[0])
		}
		number, err := strconv.ParseFloat(sizeFields[0], 64)
		if err != nil || number <= 0 {
			return nil, fmt.Errorf("invalid unit quantity %q", sizeFields[0])
		}

		actual, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || actual <= 0 {
			return nil, fmt.Errorf("invalid actual price %q", parts[1])
		}
		discounted, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil || discounted <= 0 || discounted > actual {
			return nil, fmt.Errorf("invalid discounted price %q", parts[2])
		}

		unit := model.ProductUnit{
			Number:          number,
			UnitType:        sizeFields[1],
			ActualPrice:     actual,
			DiscountedPrice: discounted,
			Status:          model.ProductStatusActive,
		}
		if len(parts) >= 4 && strings.TrimSpace(parts[3]) != "" {
			stock, err := strconv.Atoi(strings.TrimSpace(parts[3]))
			if err != nil || stock < 0 {
				return nil, fmt.Errorf("invalid stock %q", parts[3])
			}
			unit.Stock = &stock
		}

		units = append(units, unit)
	}

	if len(units) == 0 {
		return nil, fmt.Errorf("no units parsed")
	}
	return units, nil
}
