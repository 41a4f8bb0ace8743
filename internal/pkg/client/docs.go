// Package client implements the client side of the place protocol.
//
// The client performs the following steps:
//	1. Connects to the server's /ws endpoint.
//	2. Sends a LOGIN message with its display name.
//	3. Receives LOGIN_SUCCESS (or an ERROR reply if the name is taken,
//	   after which the server closes the connection).
//	4. Receives the BOARD snapshot and adopts it as its local view.
//	5. Thereafter folds every TILE_CHANGED broadcast into the local view,
//	   and submits CHANGE_TILE requests for cells the user paints.
//
// The local view is never updated from the client's own requests; only
// the server's TILE_CHANGED confirmations mutate it, so every client
// converges on the authoritative board.
package client
