// Package websocket pushes board changes to browser clients.
//
// Clients connect to /ws?session=<id> and receive one JSON Message per
// turn played in that session:
//
//	{"session_id":"default","event":"move","changes":[...],"statistics":{...}}
//
// Events are EventStart, EventMove and EventBoardFull. Changes are the same
// ordered ADD/REMOVE list the HTTP API returns, so a client can replay them
// against its own copy of the board. Incoming frames are ignored.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// Concurrency:
//
// All bookkeeping happens on the Run goroutine. Broadcasts are queued
// without blocking the caller; when the queue is full the message is
// dropped and logged. A client that cannot keep up is disconnected.
package websocket
