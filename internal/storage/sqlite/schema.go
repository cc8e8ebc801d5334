package sqlite

import (
	"context"
	"fmt"

	"salesetl/internal/storage"
	"salesetl/internal/warehouse"
)

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS RawSalesData (
		InvoiceNo   TEXT,
		StockCode   TEXT,
		Description TEXT,
		Quantity    INTEGER,
		InvoiceDate TEXT,
		UnitPrice   REAL,
		CustomerID  TEXT,
		Country     TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS CleanedSales (
		InvoiceNo   TEXT,
		StockCode   TEXT,
		Description TEXT,
		Quantity    INTEGER,
		InvoiceDate TEXT,
		UnitPrice   REAL,
		CustomerID  TEXT,
		Country     TEXT,
		TotalAmount REAL
	)`,
	`CREATE TABLE IF NOT EXISTS DimCustomers (
		CustomerKey       INTEGER PRIMARY KEY AUTOINCREMENT,
		CustomerID        TEXT NOT NULL UNIQUE,
		FirstPurchaseDate TEXT,
		TotalOrders       INTEGER,
		TotalSpent        REAL
	)`,
	`CREATE TABLE IF NOT EXISTS DimProducts (
		ProductKey  INTEGER PRIMARY KEY AUTOINCREMENT,
		StockCode   TEXT NOT NULL UNIQUE,
		Description TEXT,
		Category    TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS DimTime (
		TimeKey   INTEGER PRIMARY KEY AUTOINCREMENT,
		FullDate  TEXT NOT NULL UNIQUE,
		Day       INTEGER,
		Month     INTEGER,
		Year      INTEGER,
		Quarter   INTEGER,
		DayOfWeek INTEGER,
		DayName   TEXT,
		MonthName TEXT,
		IsWeekend INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS FactSales (
		SalesKey    INTEGER PRIMARY KEY AUTOINCREMENT,
		TimeKey     INTEGER NOT NULL REFERENCES DimTime(TimeKey),
		CustomerKey INTEGER NOT NULL REFERENCES DimCustomers(CustomerKey),
		ProductKey  INTEGER NOT NULL REFERENCES DimProducts(ProductKey),
		Quantity    INTEGER,
		UnitPrice   REAL,
		TotalAmount REAL,
		Country     TEXT
	)`,
}

func ensureSchema(ctx context.Context, repo storage.Repository) error {
	for _, stmt := range ddl {
		if _, err := repo.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite ddl: %w", err)
		}
	}
	return nil
}

// statements is the SQLite warehouse dialect. The repository binds time.Time
// values as "YYYY-MM-DD HH:MM:SS" text, which date and strftime accept.
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

	// Bare-column semantics: with MIN(rowid) in the aggregate, Description is
	// taken from the earliest inserted row per stock code (first-seen wins).
	InsertProducts: `
		INSERT INTO DimProducts (StockCode, Description, Category)
		SELECT f.StockCode, f.Description, 'Uncategorized'
		FROM (
			SELECT StockCode, Description, MIN(rowid) AS first_seen
			FROM CleanedSales
			GROUP BY StockCode
		) f
		WHERE NOT EXISTS (
			SELECT 1 FROM DimProducts d WHERE d.StockCode = f.StockCode
		)`,

	InsertDates: `
		INSERT INTO DimTime (FullDate, Day, Month, Year, Quarter, DayOfWeek, DayName, MonthName, IsWeekend)
		SELECT
			d.FullDate,
			CAST(strftime('%d', d.FullDate) AS INTEGER),
			CAST(strftime('%m', d.FullDate) AS INTEGER),
			CAST(strftime('%Y', d.FullDate) AS INTEGER),
			(CAST(strftime('%m', d.FullDate) AS INTEGER) + 2) / 3,
			CAST(strftime('%w', d.FullDate) AS INTEGER),
			CASE strftime('%w', d.FullDate)
				WHEN '0' THEN 'Sunday'  WHEN '1' THEN 'Monday'   WHEN '2' THEN 'Tuesday'
				WHEN '3' THEN 'Wednesday' WHEN '4' THEN 'Thursday'
				WHEN '5' THEN 'Friday'  ELSE 'Saturday'
			END,
			CASE strftime('%m', d.FullDate)
				WHEN '01' THEN 'January'  WHEN '02' THEN 'February' WHEN '03' THEN 'March'
				WHEN '04' THEN 'April'    WHEN '05' THEN 'May'      WHEN '06' THEN 'June'
				WHEN '07' THEN 'July'     WHEN '08' THEN 'August'   WHEN '09' THEN 'September'
				WHEN '10' THEN 'October'  WHEN '11' THEN 'November' ELSE 'December'
			END,
			CASE WHEN strftime('%w', d.FullDate) IN ('0', '6') THEN 1 ELSE 0 END
		FROM (
			SELECT DISTINCT date(InvoiceDate) AS FullDate FROM CleanedSales
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
		JOIN DimTime      t ON t.FullDate = date(s.InvoiceDate)`,
}
