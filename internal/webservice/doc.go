// Package webservice is the connection to a PrestaShop web service.
//
// A Connection holds the shop settings (base URL, endpoint path, key and
// optional shop ID) and issues the four verbs the service understands:
//   - Fetch: GET with the serialized query
//   - Create: POST with an XML body, filters dropped
//   - Update: PUT with an XML body
//   - Remove: DELETE with id=[id] as the only parameter
//
// Before any call the connection checks that the method is one of those four
// and that a base URL and key resolve, either from Configure or from the
// Defaults source. Nothing is sent otherwise.
//
// Example Usage:
//
//	conn := webservice.New(transport.NewClient(transport.DefaultOptions()),
//		webservice.WithLogger(logger),
//	).Configure("https://shop.example", "/api", key, 0)
//
//	raw, err := conn.Fetch(ctx, "products", query.State{}.WithLimit(10, 0))
//
// Responses come back decoded but not normalized; see package normalize.
package webservice
