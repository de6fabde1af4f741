// Package httputil provides the JSON HTTP client used by the geocoder.
//
// [Client] sends the service's required headers, retries temporary failures
// with a [Backoff] and caches raw response bodies in any [cache.Cache]
// backend, keyed by service and URL:
//
//	client := httputil.NewClient("nominatim", c, cache.TTLGeocode, http.Header{
//	    "User-Agent": {"chartpack"},
//	})
//	var out []result
//	err := client.GetJSON(ctx, url, &out)
//
// Non-2xx responses become structured errors: 404 is NOT_FOUND, 429 is
// RATE_LIMITED, 408 and 504 are TIMEOUT and other 5xx are NETWORK_ERROR.
// Only the last three are retried.
package httputil
