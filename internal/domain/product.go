package domain

import "github.com/shopspring/decimal"

// Product is a catalog item. It can be referenced by several categories at once
type Product struct {
	name  string
	code  string
	price decimal.Decimal
	brand string
}

func NewProduct(name, code string, price decimal.Decimal, brand string) *Product {
	return &Product{
		name:  name,
		code:  code,
		price: price,
		brand: brand,
	}
}

func (p *Product) Name() string {
	return p.name
}

func (p *Product) Code() string {
	return p.code
}

func (p *Product) Price() decimal.Decimal {
	return p.price
}

func (p *Product) Brand() string {
	return p.brand
}
