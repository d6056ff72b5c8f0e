// Package catalog provides an HTTP client for the rental catalog API.
//
// # Overview
//
// The catalog API serves films, actors, customers and rentals. Every
// response is a JSON envelope:
//
//	{"data": <payload>}      success
//	{"error": "<message>"}   failure
//
// Client unwraps the envelope and returns the payload decoded into the
// types in types.go, or a *Error whose Message is ready to show to the
// operator.
//
// # Client Usage
//
//	client, err := catalog.NewClient("http://localhost:4001/api",
//		catalog.WithLogger(logger),
//		catalog.WithObserver(store),
//	)
//	if err != nil {
//		return fmt.Errorf("init catalog client: %w", err)
//	}
//
//	films, err := client.TopFilms(ctx, 5)
//	if err != nil {
//		msg := catalog.Message(err, "Failed to load films")
//		...
//	}
//
// UI code depends on the Service interface rather than *Client so tests can
// swap in catalogtest.Fake.
//
// # API Endpoints
//
//   - GET    /films/top, /films/recent, /films/search, /films/:id
//   - GET    /films/:id/inventory
//   - POST   /films/:id/rent
//   - PUT    /films/rentals/:id/return
//   - GET    /actors/top, /actors/:id
//   - GET    /customers?page&limit&search
//   - GET    /customers/countries
//   - GET    /customers/:id, /customers/:id/rentals, /customers/:id/rental-history
//   - POST   /customers
//   - PUT    /customers/:id
//   - DELETE /customers/:id
//
// # Request Handling
//
// All requests:
//   - Use the caller's context for cancellation
//   - Send Accept and Content-Type: application/json
//   - Include User-Agent: rentdesk/0.1
//   - Carry a fresh X-Request-ID so log lines can be matched to server logs
//   - Have no timeout unless WithTimeout is given
//   - Are never retried
//
// # Error Handling
//
// Every failure is a *Error:
//
//   - Transport failures (refused, reset, DNS): Message is ConnectMessage and
//     Transport() reports true
//   - Non-2xx responses: Message is the envelope error, or
//     "HTTP <status>: <status text>" when the body carries none
//   - Undecodable bodies: Message names the decode failure
//
// A request abandoned because the caller's context ended returns the context
// error unchanged. Pages treat that as "superseded", not as a failure.
//
// A success envelope whose data is null decodes to a nil entity and a nil
// error; pages render that as "not found".
//
// # Observers
//
// WithObserver registers a hook told about the outcome of every request.
// The connectivity store uses it to count consecutive transport failures.
//
// # Thread Safety
//
// Client is safe for concurrent use.
package catalog
