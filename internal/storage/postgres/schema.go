package postgres

import (
	"context"
	"fmt"

	"salesetl/internal/storage"
	"salesetl/internal/warehouse"
)

// ddl creates the staging table, the cleaned table, and the star schema.
// Statements are idempotent; referential integrity of the fact table is
// enforced here, in the store, not by the pipeline.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS RawSalesData (
		InvoiceNo   VARCHAR(20),
		StockCode   VARCHAR(20),
		Description VARCHAR(255),
		Quantity    INTEGER,
		InvoiceDate TIMESTAMP,
		UnitPrice   NUMERIC(10,2),
		CustomerID  VARCHAR(20),
		Country     VARCHAR(60)
	)`,
	`CREATE TABLE IF NOT EXISTS CleanedSales (
		InvoiceNo   VARCHAR(20),
		StockCode   VARCHAR(20),
		Description VARCHAR(255),
		Quantity    INTEGER,
		InvoiceDate TIMESTAMP,
		UnitPrice   NUMERIC(10,2),
		CustomerID  VARCHAR(20),
		Country     VARCHAR(60),
		TotalAmount NUMERIC(12,2)
	)`,
	`CREATE TABLE IF NOT EXISTS DimCustomers (
		CustomerKey       SERIAL PRIMARY KEY,
		CustomerID        VARCHAR(20) NOT NULL UNIQUE,
		FirstPurchaseDate TIMESTAMP,
		TotalOrders       INTEGER,
		TotalSpent        NUMERIC(12,2)
	)`,
	`CREATE TABLE IF NOT EXISTS DimProducts (
		ProductKey  SERIAL PRIMARY KEY,
		StockCode   VARCHAR(20) NOT NULL UNIQUE,
		Description VARCHAR(255),
		Category    VARCHAR(50)
	)`,
	`CREATE TABLE IF NOT EXISTS DimTime (
		TimeKey   SERIAL PRIMARY KEY,
		FullDate  DATE NOT NULL UNIQUE,
		Day       INTEGER,
		Month     INTEGER,
		Year      INTEGER,
		Quarter   INTEGER,
		DayOfWeek INTEGER,
		DayName   VARCHAR(12),
		MonthName VARCHAR(12),
		IsWeekend BOOLEAN
	)`,
	`CREATE TABLE IF NOT EXISTS FactSales (
		SalesKey    SERIAL PRIMARY KEY,
		TimeKey     INTEGER NOT NULL REFERENCES DimTime(TimeKey),
		CustomerKey INTEGER NOT NULL REFERENCES DimCustomers(CustomerKey),
		ProductKey  INTEGER NOT NULL REFERENCES DimProducts(ProductKey),
		Quantity    INTEGER,
		UnitPrice   NUMERIC(10,2),
		TotalAmount NUMERIC(12,2),
		Country     VARCHAR(60)
	)`,
}

func ensureSchema(ctx context.Context, repo storage.Repository) error {
	for _, stmt := range ddl {
		if _, err := repo.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres ddl: %w", err)
		}
	}
	return nil
}

// statements is the Postgres warehouse dialect.
var statements = warehouse.Statements{
	TransformSales: `
		INSERT INTO CleanedSales
			(InvoiceNo, StockCode, Description, Quantity, InvoiceDate, UnitPrice, CustomerID, Country, TotalAmount)
		SELECT
			InvoiceNo, StockCode, Description, Quantity, InvoiceDate, UnitPrice, CustomerID, Country,
			Quantity * UnitPrice
		FROM RawSalesData`,

	InsertCustomers: `
		INSERT INTO DimCustomers (CustomerID, FirstPurchaseDate, TotalOrders, TotalSpent)
		SELECT
			s.CustomerID,
			MIN(s.InvoiceDate),
			COUNT(DISTINCT s.InvoiceNo),
			SUM(s.TotalAmount)
		FROM CleanedSales s
		WHERE NOT EXISTS (
			SELECT 1 FROM DimCustomers d WHERE d.CustomerID = s.CustomerID
		)
		GROUP BY s.CustomerID`,

	InsertProducts: `
		INSERT INTO DimProducts (StockCode, Description, Category)
		SELECT DISTINCT ON (s.StockCode)
			s.StockCode, s.Description, 'Uncategorized'
		FROM CleanedSales s
		WHERE NOT EXISTS (
			SELECT 1 FROM DimProducts d WHERE d.StockCode = s.StockCode
		)
		ORDER BY s.StockCode, s.InvoiceDate`,

	InsertDates: `
		INSERT INTO DimTime (FullDate, Day, Month, Year, Quarter, DayOfWeek, DayName, MonthName, IsWeekend)
		SELECT
			d.FullDate,
			EXTRACT(DAY FROM d.FullDate)::int,
			EXTRACT(MONTH FROM d.FullDate)::int,
			EXTRACT(YEAR FROM d.FullDate)::int,
			EXTRACT(QUARTER FROM d.FullDate)::int,
			EXTRACT(ISODOW FROM d.FullDate)::int,
			TRIM(TO_CHAR(d.FullDate, 'Day')),
			TRIM(TO_CHAR(d.FullDate, 'Month')),
			EXTRACT(ISODOW FROM d.FullDate) >= 6
		FROM (
			SELECT DISTINCT CAST(InvoiceDate AS DATE) AS FullDate FROM CleanedSales
		) d
		WHERE NOT EXISTS (
			SELECT 1 FROM DimTime t WHERE t.FullDate = d.FullDate
		)`,

	InsertFacts: `
		INSERT INTO FactSales (TimeKey, CustomerKey, ProductKey, Quantity, UnitPrice, TotalAmount, Country)
		SELECT
			t.TimeKey, c.CustomerKey, p.ProductKey,
			s.Quantity, s.UnitPrice, s.TotalAmount, s.Country
		FROM CleanedSales s
		JOIN DimCustomers c ON c.CustomerID = s.CustomerID
		JOIN DimProducts  p ON p.StockCode = s.StockCode
		JOIN DimTime      t ON t.FullDate = CAST(s.InvoiceDate AS DATE)`,
}
