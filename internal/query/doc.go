// Package query builds the query string understood by the PrestaShop web service.
//
// The web service filters collections with a bracketed mini-language:
//
//	filter[id]=[1|5]          one of
//	filter[price]=[10,20]     interval
//	filter[name]=[Shirt]%     begins with
//	display=[id,name]         field selection
//	sort=[name_ASC,id_DESC]   ordering
//	limit=20, 10              offset, count
//
// A State accumulates constraints and is immutable: every With* method
// returns a new State, so a base query can be shared and extended freely.
// Serialize renders the State into ordered Params.
//
// Example Usage:
//
//	st := query.State{}.
//		WithDisplay("id", "name").
//		WithFilter(query.OneOf("id", 1, 5)).
//		WithSort("name", query.Asc).
//		WithLimit(10, 20)
//	params := st.Serialize()
package query
