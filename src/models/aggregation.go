package models

import "github.com/shopspring/decimal"

// MMonthlyRevenue is one row of the revenue-by-month view.
type MMonthlyRevenue struct {
	Month      int             `json:"month"`
	MonthName  string          `json:"month_name"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

// MCategoryRevenue is one row of the revenue-by-category view.
type MCategoryRevenue struct {
	Category   string          `json:"category"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

// MProductQuantity is one row of the top-sellers view.
type MProductQuantity struct {
	ProductName  string `json:"product_name"`
	QuantitySold int64  `json:"quantity_sold"`
}

// MPriceQuantity is one point of the price vs quantity scatter.
type MPriceQuantity struct {
	Price        decimal.Decimal `json:"price"`
	QuantitySold int64           `json:"quantity_sold"`
}
