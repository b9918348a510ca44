/*
Package tracing propagates trace context to the web service.

# Overview

Each web service call is a span. When the caller's context already carries
a trace (for example one continued from an incoming request with
FromHeader, or attached with WithTrace), the call joins it;
otherwise the call starts its own trace. Trace and span IDs go out as
X-Trace-ID and X-Span-ID headers and are added to every log line of the
call.

# Usage

	ctx := tracing.FromHeader(r.Context(), r.Header)

	products, err := client.Resource("products")
	list, err := products.Get(ctx) // joins the trace
*/
package tracing
