/*
Package shelfsdk is a Go client for the shelf reading-tracker API.

# SDKClient vs Session

SDKClient covers the public endpoints: health probes and the /auth
routes. Signing in returns a Session, which carries the access token and
talks to the /api/books routes on the user's behalf:

	client := shelfsdk.NewSDKClient("http://localhost:8080")

	session, err := client.Register(ctx, "reader@example.com", "password123")
	// or client.Login(ctx, email, password)

	results, err := session.SearchBooks(ctx, "dune", 0, 10)
	err = session.AddBook(ctx, results.Books[0])
	read, err := session.HasRead(ctx, results.Books[0].GoogleBookID)

	books, err := session.ListBooks(ctx) // entries carry the id DeleteBook takes

# Refresh cookie

The server hands the refresh token out as an HttpOnly cookie. SDKClient
keeps it in a cookie jar, so a Session that gets a 401 refreshes its
access token once and retries the call. A Session that cannot refresh
returns the server's error.

# Errors

Non-2xx responses come back as *APIError carrying the HTTP status and
the server's error code:

	var apiErr *shelfsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == shelfsdk.ErrorCodeEmailTaken {
		// ask for a different address
	}
*/
package shelfsdk
