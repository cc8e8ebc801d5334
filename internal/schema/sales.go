// Package schema defines the canonical sales row contract shared by the
// extract, clean, and load stages: canonical field keys, the source header
// mapping, and the staging table column order.
package schema

import "salesetl/pkg/records"

// Canonical field keys used in records.Record across the pipeline.
const (
	FieldInvoiceNo   = "invoice_no"
	FieldStockCode   = "stock_code"
	FieldDescription = "description"
	FieldQuantity    = "quantity"
	FieldInvoiceDate = "invoice_date"
	FieldUnitPrice   = "unit_price"
	FieldCustomerID  = "customer_id"
	FieldCountry     = "country"
)

// TimestampLayouts are tried in order when parsing the invoice timestamp.
// The first matches the common retail export format ("12/1/2010 8:26").
var TimestampLayouts = []string{
	"1/2/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
}

// HeaderMap maps the required source file headers onto canonical field keys.
var HeaderMap = map[string]string{
	"InvoiceNo":   FieldInvoiceNo,
	"StockCode":   FieldStockCode,
	"Description": FieldDescription,
	"Quantity":    FieldQuantity,
	"InvoiceDate": FieldInvoiceDate,
	"UnitPrice":   FieldUnitPrice,
	"CustomerID":  FieldCustomerID,
	"Country":     FieldCountry,
}

// StagingTable is the append-only landing table for accepted input rows.
const StagingTable = "RawSalesData"

// StagingColumns is the staging table column contract. Insert row values must
// follow exactly this order.
var StagingColumns = []string{
	"InvoiceNo",
	"StockCode",
	"Description",
	"Quantity",
	"InvoiceDate",
	"UnitPrice",
	"CustomerID",
	"Country",
}

// fieldOrder pairs StagingColumns positionally with canonical field keys.
var fieldOrder = []string{
	FieldInvoiceNo,
	FieldStockCode,
	FieldDescription,
	FieldQuantity,
	FieldInvoiceDate,
	FieldUnitPrice,
	FieldCustomerID,
	FieldCountry,
}

// StagingRow flattens a record into a value slice aligned to StagingColumns.
func StagingRow(rec records.Record) []any {
	row := make([]any, len(fieldOrder))
	for i, f := range fieldOrder {
		row[i] = rec[f]
	}
	return row
}

// StagingRows flattens a record slice, preserving order.
func StagingRows(recs []records.Record) [][]any {
	rows := make([][]any, len(recs))
	for i, rec := range recs {
		rows[i] = StagingRow(rec)
	}
	return rows
}
