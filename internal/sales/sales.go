// Package sales holds the domain vocabulary of the order pipeline: column
// names, the regions, and the declared schema of the sales_data table.
package sales

import "salesetl/internal/ddl"

// Source columns.
const (
	OrderID           = "OrderId"
	OrderItemID       = "OrderItemId"
	QuantityOrdered   = "QuantityOrdered"
	ItemPrice         = "ItemPrice"
	PromotionDiscount = "PromotionDiscount"
)

// Columns added by the pipeline.
const (
	Region     = "region"
	TotalSales = "total_sales"
	NetSale    = "net_sale"
)

// Region labels, in source order.
const (
	RegionA = "A"
	RegionB = "B"
)

// DefaultTable is the destination table name.
const DefaultTable = "sales_data"

// NumericColumns are coerced to float64 on extraction.
var NumericColumns = []string{QuantityOrdered, ItemPrice, PromotionDiscount}

// KeyColumns identify an order line; surrounding whitespace is not part of
// the key.
var KeyColumns = []string{OrderID, OrderItemID}

// RequiredColumns must be present after the regional extracts are combined.
var RequiredColumns = []string{OrderID, OrderItemID, QuantityOrdered, ItemPrice, PromotionDiscount}

// TableDef describes the persisted table. Every column is nullable; OrderId
// is the primary key.
func TableDef(table string) ddl.TableDef {
	if table == "" {
		table = DefaultTable
	}
	return ddl.TableDef{
		FQN: table,
		Columns: []ddl.ColumnDef{
			{Name: OrderID, Type: "text", Nullable: true, PrimaryKey: true},
			{Name: OrderItemID, Type: "text", Nullable: true},
			{Name: QuantityOrdered, Type: "real", Nullable: true},
			{Name: ItemPrice, Type: "real", Nullable: true},
			{Name: PromotionDiscount, Type: "real", Nullable: true},
			{Name: Region, Type: "text", Nullable: true},
			{Name: TotalSales, Type: "real", Nullable: true},
			{Name: NetSale, Type: "real", Nullable: true},
		},
	}
}
