// Package server implements the server side of the place protocol.
//
// The server performs the following steps:
//	1. Sets up an HTTP server upgrading /ws requests to websocket connections.
//	2. Before the upgrade, the admission gate may reject a connection that
//	   repeats the previously accepted origin within the admission interval.
//	3. On connection, it expects a LOGIN message carrying the proposed display
//	   name. A taken or empty name is answered with ERROR and the connection
//	   is closed.
//	4. On success, the session is registered and handed the board snapshot in
//	   one atomic step: the client receives LOGIN_SUCCESS, then BOARD, then
//	   every TILE_CHANGED committed from that point on.
//	5. Each inbound CHANGE_TILE is rate limited per session, validated
//	   against the board, applied under the exclusion lock, recorded for
//	   statistics, and broadcast to all joined sessions including the author.
//	6. On shutdown the server stops accepting connections, closes every
//	   session and writes the statistics report.
//
// Fan-out never writes to the network under the exclusion lock: committed
// tiles are enqueued to independent per-session queues that drain
// asynchronously, so a slow or broken peer only ever hurts itself.
package server
