// Package http provides JSON response helpers and a read-only HTTP
// inspector over a container.
//
// # Response
//
//	res := gohttp.NewResponse(w)
//	res.JSON(200, data)           // raw JSON with status
//	res.Success(data)             // 200 {"data": ...}
//	res.Error(400, "bad input")   // {"message": "bad input"}
//	res.NotFound()                // 404 {"message": "Not found."}
//	res.ServerError()             // 500 {"message": "Server Error."}
//	res.FromError(err)            // status picked from the container error
//
// # Inspector
//
//	router.Prefix("/_container", gohttp.NewInspector(c).Register)
//
//	GET /_container/definitions        [{"id", "kind", "resolved", "type"}]
//	GET /_container/definitions/{id}   one entry, or 404
//	GET /_container/types              [{"name", "params": [...]}]
package http
