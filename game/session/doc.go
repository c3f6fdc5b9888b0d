// Package session keeps the in-memory registry of game sessions.
//
// Every session owns its own engine.Board, so players on different
// sessions never see each other's balls. IDs are case-insensitive;
// generated IDs are the first eight hex digits of a random UUID.
//
// Sessions live only as long as the process. CleanupExpiredSessions
// drops the ones that have been idle for too long.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", boardConfig)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//	sessions := manager.List()
package session
