// Package server exposes the fragment codec over HTTP.
//
// Routes:
//
//	POST /v1/decode   {"fragment":"#a=1"} or {"url":"https://..."}  -> {"state":{...}}
//	POST /v1/encode   {"state":{...},"fragment":"#base"}             -> {"fragment":"#...","state":{...}}
//	GET  /v1/ws       websocket session driving a Store in the browser
//	GET  /metrics     Prometheus metrics
//	GET  /healthz     liveness
//
// Every store created by the server uses the schema, defaults and
// encoding from the loaded configuration.
package server
