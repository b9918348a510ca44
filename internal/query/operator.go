package query

import (
	"strings"

	"github.com/GriffinCanCode/prestashop/internal/apierr"
)

// Operator is a filter operator code accepted by the web service
type Operator string

const (
	OpEqual    Operator = "="
	OpOr       Operator = "OR"
	OpPipe     Operator = "|"
	OpInterval Operator = "INTERVAL"
	OpComma    Operator = ","
	OpLiteral  Operator = "LITERAL"
	OpBegin    Operator = "BEGIN"
	OpEnd      Operator = "END"
	OpContains Operator = "CONTAINS"
	OpInner    Operator = "INNER"

	// opSchema is internal: schema filters are only built with SchemaOnly
	opSchema Operator = "SCHEMA"
)

// Operators lists every code ParseOperator accepts
var Operators = []Operator{
	OpPipe, OpComma, OpEqual, OpOr, OpInterval,
	OpLiteral, OpBegin, OpEnd, OpContains, OpInner,
}

// ParseOperator resolves an operator code, ignoring case
func ParseOperator(code string) (Operator, error) {
	op := Operator(strings.ToUpper(strings.TrimSpace(code)))
	for _, known := range Operators {
		if op == known {
			return op.canonical(), nil
		}
	}
	return "", apierr.InvalidFilterOperator(code)
}

// canonical folds the symbol aliases onto their named operators
func (o Operator) canonical() Operator {
	switch o {
	case OpPipe:
		return OpOr
	case OpComma:
		return OpInterval
	default:
		return o
	}
}

// Multi reports whether the operator takes a list of values
func (o Operator) Multi() bool {
	switch o.canonical() {
	case OpOr, OpInterval:
		return true
	}
	return false
}
