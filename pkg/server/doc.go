// Package server is a live preview for a mounted instance.
//
// It serves the bound document over HTTP and forwards DOM events from the
// browser over a WebSocket. Each event is dispatched to the server-side
// node at the same path, and the re-rendered host markup is pushed back to
// every connected browser:
//
//	browser                         server
//	  | {type:"event",path,event,value} |
//	  |-------------------------------->| Dispatch (serialized)
//	  |      {type:"render",path,html}  |
//	  |<--------------------------------| broadcast
//
// Routes:
//
//	GET /         the document with the preview client injected
//	GET /ws       WebSocket endpoint
//	GET /state    JSON snapshot of the instance data
//	GET /metrics  Prometheus metrics, when a Gatherer is configured
package server
