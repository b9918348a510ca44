// Package resource is the typed facade over the web service resources.
//
// Every PrestaShop resource is described by a Descriptor (path, XML root,
// fillable fields) held in a Registry. The built-in registry lists the 67
// resources of the web service and is loaded from resources.yaml.
//
// A Query builds and runs reads. Records come back bound to the
// connection and can be changed and saved:
//
//	desc, _ := resource.Default().Lookup("price_ranges")
//	q := resource.NewQuery(conn, desc)
//
//	ranges, err := q.Where("id_carrier", 2).SortBy("delimiter1").Get(ctx)
//
//	r := q.New()
//	_ = r.Set("id_carrier", 2)
//	_ = r.Set("delimiter1", 0)
//	_ = r.Set("delimiter2", 100)
//	r, err = r.Save(ctx)
//
// Query and Record are separate types: a record cannot accumulate filters.
package resource
